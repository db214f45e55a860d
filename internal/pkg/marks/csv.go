package marks

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedCSV is returned when the marks file cannot be interpreted.
var ErrMalformedCSV = errors.New("malformed marks csv")

var validate = validator.New()

// Record is one row of the marks file.
type Record struct {
	StudentID string  `json:"student_id" validate:"required"`
	CourseID  string  `json:"course_id" validate:"required"`
	Marks     float64 `json:"marks" validate:"gte=0"`
}

// Dataset is a parsed marks file.
type Dataset struct {
	Header  []string
	Records []Record
}

// LoadFile opens and parses a marks file from disk.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open marks file: %w", err)
	}
	defer f.Close()

	return LoadCSV(f)
}

// LoadCSV parses a marks file. The first row is the header; column 0 is
// the student id, column 1 the course id and the last column the marks.
// Every field is trimmed.
func LoadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrMalformedCSV)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("%w: header needs student, course and marks columns", ErrMalformedCSV)
	}

	ds := &Dataset{Header: trimAll(header)}
	seen := make(map[[2]string]int)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}
		row = trimAll(row)
		if isBlank(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: line %d has %d columns", ErrMalformedCSV, line, len(row))
		}

		marks, err := strconv.ParseFloat(row[len(row)-1], 64)
		if err != nil || math.IsInf(marks, 0) || math.IsNaN(marks) {
			return nil, fmt.Errorf("%w: line %d: marks %q is not a finite number", ErrMalformedCSV, line, row[len(row)-1])
		}

		rec := Record{StudentID: row[0], CourseID: row[1], Marks: marks}
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}
		pair := [2]string{rec.StudentID, rec.CourseID}
		if first, ok := seen[pair]; ok {
			return nil, fmt.Errorf("%w: line %d repeats student %s in course %s from line %d",
				ErrMalformedCSV, line, rec.StudentID, rec.CourseID, first)
		}
		seen[pair] = line
		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}
