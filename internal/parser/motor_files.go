package parser

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// MotorFileExt is the extension of motor data files.
const MotorFileExt = ".out"

// ParseMotorData reads the motor data format: a "<count> <bins>" header line,
// then one "<is_bad> v1 ... v<bins>" line per sample. Lines with the wrong
// number of fields are skipped and recorded as warnings.
func ParseMotorData(r io.Reader, name string) (*MotorFile, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return nil, fmt.Errorf("%w: %s is empty", ErrDataFormat, name)
	}
	meta := strings.Fields(scanner.Text())
	if len(meta) < 2 {
		return nil, fmt.Errorf("%w: %s: header must be \"<count> <bins>\"", ErrDataFormat, name)
	}
	count, errCount := strconv.Atoi(meta[0])
	bins, errBins := strconv.Atoi(meta[1])
	if errCount != nil || errBins != nil || count < 0 || bins <= 0 {
		return nil, fmt.Errorf("%w: %s: invalid header %q", ErrDataFormat, name, scanner.Text())
	}

	file := &MotorFile{Path: name, Bins: bins, Points: make([]DataPoint, 0, count)}
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(strings.TrimRight(scanner.Text(), "\r"))
		if len(fields) == 0 {
			continue
		}
		if len(fields) != bins+1 {
			file.Warnings = append(file.Warnings, fmt.Sprintf("%s line %d: expected %d fields, found %d, skipped", name, lineNum, bins+1, len(fields)))
			continue
		}
		label, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: invalid label %q", ErrDataFormat, name, lineNum, fields[0])
		}
		point := DataPoint{Bad: label == 1, Bins: make([]float64, bins)}
		for i, f := range fields[1:] {
			if point.Bins[i], err = parseCell(f, lineNum, i+2); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
		file.Points = append(file.Points, point)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(file.Points) != count {
		file.Warnings = append(file.Warnings, fmt.Sprintf("%s: header announces %d samples, loaded %d", name, count, len(file.Points)))
	}
	return file, nil
}

// LoadMotorFiles loads every .out file below dir, in lexical path order.
func LoadMotorFiles(dir string) ([]*MotorFile, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, MotorFileExt) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list motor data in %s: %w", dir, err)
	}
	sort.Strings(paths)

	files := make([]*MotorFile, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open motor data file: %w", err)
		}
		mf, err := ParseMotorData(f, path)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, mf)
	}
	return files, nil
}
