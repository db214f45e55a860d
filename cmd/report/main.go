package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/filestorage"
	"github.com/yigit/studentrecords/internal/pkg/logger"
	"github.com/yigit/studentrecords/internal/pkg/marks"
	"github.com/yigit/studentrecords/internal/pkg/report"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

type reportOptions struct {
	studentID string
	courseID  string
	csvPath   string
	outPath   string
	bins      int
	extra     []string
}

func main() {
	lgr := logger.Configure(logger.Config{
		Level:  logger.ParseLevel(os.Getenv("LOG_LEVEL")),
		Pretty: true,
		Output: os.Stderr,
	})

	if err := newRootCommand(lgr).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(lgr zerolog.Logger) *cobra.Command {
	opts := reportOptions{}

	cmd := &cobra.Command{
		Use:           "report (-s STUDENT_ID | -c COURSE_ID)",
		Short:         "Write a marks report from a CSV file as a static HTML page",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.extra = args
			return generate(cmd.Context(), opts, lgr)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.studentID, "student", "s", "", "student id to report on")
	flags.StringVarP(&opts.courseID, "course", "c", "", "course id to report on")
	flags.StringVar(&opts.csvPath, "csv", "data.csv", "marks file")
	flags.StringVar(&opts.outPath, "out", "output.html", "HTML file to write")
	flags.IntVar(&opts.bins, "bins", marks.DefaultBins, "histogram bins for course reports")

	// Bad arguments still produce the error page.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		lgr.Warn().Err(err).Msg("Invalid report arguments")
		writeErrorPage(opts.outPath, "", lgr)
		return err
	})

	return cmd
}

// query maps the flags to a marks lookup. Exactly one of -s and -c is required.
func (o reportOptions) query() (kind, value string, err error) {
	switch {
	case len(o.extra) > 0:
		return "", "", apperrors.NewValidationError(validation.CodeMarksQueryInvalid, "Unexpected argument "+o.extra[0])
	case o.studentID != "" && o.courseID == "":
		return validation.QueryStudent, o.studentID, nil
	case o.courseID != "" && o.studentID == "":
		return validation.QueryCourse, o.courseID, nil
	default:
		return "", "", apperrors.NewValidationError(validation.CodeMarksQueryInvalid, "Pass exactly one of -s or -c")
	}
}

func generate(ctx context.Context, opts reportOptions, lgr zerolog.Logger) error {
	err := writeReport(ctx, opts, lgr)
	if err == nil {
		lgr.Info().Str("out", opts.outPath).Msg("Report written")
		return nil
	}

	message := ""
	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed):
		_, message, _ = apperrors.CodeOf(err)
		lgr.Warn().Err(err).Msg("Invalid report arguments")
	case apperrors.Is(err, apperrors.ErrNoData):
		lgr.Warn().Err(err).Msg("No marks matched the requested id")
	default:
		lgr.Error().Err(err).Msg("Report generation failed")
	}

	writeErrorPage(opts.outPath, message, lgr)
	return err
}

func writeReport(ctx context.Context, opts reportOptions, lgr zerolog.Logger) error {
	kind, value, err := opts.query()
	if err != nil {
		return err
	}

	// Histograms are written next to the page and linked by bare file name.
	storage, err := filestorage.NewLocalStorage(filepath.Dir(opts.outPath), "")
	if err != nil {
		return err
	}

	svc := services.NewMarksService(opts.csvPath, opts.bins, storage, lgr)
	result, err := svc.Lookup(ctx, kind, value)
	if err != nil {
		return err
	}

	pageOpts := report.Options{AverageDecimals: 1}
	_, err = storage.Save(filepath.Base(opts.outPath), func(w io.Writer) error {
		if result.Student != nil {
			return report.Student(w, result.Header, *result.Student, pageOpts)
		}
		return report.Course(w, *result.Course, result.ImageURL, pageOpts)
	})
	return err
}

func writeErrorPage(outPath, message string, lgr zerolog.Logger) {
	var buf bytes.Buffer
	if err := report.Error(&buf, message, report.Options{}); err != nil {
		lgr.Error().Err(err).Msg("Failed to render error page")
		return
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		lgr.Error().Err(err).Str("out", outPath).Msg("Failed to write error page")
	}
}
