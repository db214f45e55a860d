// Package report renders marks summaries as standalone HTML pages. The
// same pages back the CLI report and the marks form of the web server.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"github.com/yigit/studentrecords/internal/pkg/marks"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("report").Funcs(template.FuncMap{
	"marks": formatNumber,
}).ParseFS(templateFS, "templates/*.html"))

// Unrounded disables rounding of the course average.
const Unrounded = -1

// Options controls presentation details that differ between front ends.
type Options struct {
	// AverageDecimals rounds the course average; Unrounded prints it as computed.
	AverageDecimals int
	// BackURL adds a "Go Back" link when set.
	BackURL string
}

type studentPage struct {
	Header  []string
	Summary marks.StudentSummary
	BackURL string
}

type coursePage struct {
	Summary  marks.CourseSummary
	Average  string
	ImageURL string
	BackURL  string
}

type errorPage struct {
	Message string
	BackURL string
}

// DefaultHeader is used when the marks file header is not available.
var DefaultHeader = []string{"Student ID", "Course ID", "Marks"}

// Student writes the student table with the total marks.
func Student(w io.Writer, header []string, summary marks.StudentSummary, opts Options) error {
	if len(header) < 3 {
		header = DefaultHeader
	} else {
		header = []string{header[0], header[1], header[len(header)-1]}
	}
	return render(w, "student.html", studentPage{Header: header, Summary: summary, BackURL: opts.BackURL})
}

// Course writes average and maximum marks plus the histogram image when
// imageURL is set.
func Course(w io.Writer, summary marks.CourseSummary, imageURL string, opts Options) error {
	return render(w, "course.html", coursePage{
		Summary:  summary,
		Average:  formatAverage(summary.Average, opts.AverageDecimals),
		ImageURL: imageURL,
		BackURL:  opts.BackURL,
	})
}

// Error writes the generic "wrong inputs" page.
func Error(w io.Writer, message string, opts Options) error {
	return render(w, "error.html", errorPage{Message: message, BackURL: opts.BackURL})
}

func render(w io.Writer, name string, data interface{}) error {
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

func formatAverage(v float64, decimals int) string {
	if decimals < 0 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	pow := math.Pow(10, float64(decimals))
	return strconv.FormatFloat(math.Round(v*pow)/pow, 'f', decimals, 64)
}

// formatNumber prints whole marks without a fractional part.
func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
