package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/pkg/chart"
	"github.com/yigit/studentrecords/internal/pkg/filestorage"
	"github.com/yigit/studentrecords/internal/pkg/marks"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// ImageStorage stores generated images and returns their URL
type ImageStorage interface {
	Save(name string, write filestorage.WriteFunc) (string, error)
}

// MarksReport is the outcome of a marks lookup. Exactly one of Student
// and Course is set.
type MarksReport struct {
	Header   []string
	Student  *marks.StudentSummary
	Course   *marks.CourseSummary
	ImageURL string
}

// MarksService answers student and course lookups over the marks file
type MarksService struct {
	csvPath string
	bins    int
	images  ImageStorage
	logger  zerolog.Logger
}

// NewMarksService creates a new MarksService. With a nil images storage no
// histogram is rendered.
func NewMarksService(csvPath string, bins int, images ImageStorage, logger zerolog.Logger) *MarksService {
	if bins <= 0 {
		bins = marks.DefaultBins
	}
	return &MarksService{
		csvPath: csvPath,
		bins:    bins,
		images:  images,
		logger:  logger,
	}
}

// Lookup validates the query, reads the marks file and aggregates the
// rows of one student or one course. The file is read on every call so
// edits show up without a restart.
func (s *MarksService) Lookup(ctx context.Context, kind, value string) (*MarksReport, error) {
	if err := validation.ValidateMarksQuery(kind, value); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strings.TrimSpace(value)

	data, err := marks.LoadFile(s.csvPath)
	if err != nil {
		return nil, err
	}

	report := &MarksReport{Header: data.Header}
	if kind == validation.QueryStudent {
		summary, err := marks.ForStudent(data.Records, key)
		if err != nil {
			return nil, err
		}
		report.Student = &summary
		return report, nil
	}

	summary, err := marks.ForCourse(data.Records, key)
	if err != nil {
		return nil, err
	}
	report.Course = &summary

	if s.images != nil {
		url, err := s.renderHistogram(summary)
		if err != nil {
			return nil, err
		}
		report.ImageURL = url
	}

	return report, nil
}

func (s *MarksService) renderHistogram(summary marks.CourseSummary) (string, error) {
	bins := marks.Histogram(summary.Marks, s.bins)
	title := "Course " + summary.CourseID

	url, err := s.images.Save("hist-"+summary.CourseID+".png", func(w io.Writer) error {
		return chart.WriteHistogram(w, title, bins)
	})
	if err != nil {
		return "", fmt.Errorf("failed to save histogram: %w", err)
	}

	s.logger.Debug().Str("course_id", summary.CourseID).Str("url", url).Msg("Histogram rendered")
	return url, nil
}
