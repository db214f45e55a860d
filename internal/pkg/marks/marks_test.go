package marks

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

var sample = []Record{
	{StudentID: "101", CourseID: "C1", Marks: 80},
	{StudentID: "101", CourseID: "C2", Marks: 70},
	{StudentID: "102", CourseID: "C1", Marks: 60},
}

func TestForStudent(t *testing.T) {
	summary, err := ForStudent(sample, "101")
	require.NoError(t, err)
	assert.Equal(t, 150, summary.TotalMarks)
	assert.Len(t, summary.Rows, 2)
}

func TestForStudentTruncatesTotal(t *testing.T) {
	records := []Record{
		{StudentID: "101", CourseID: "C1", Marks: 80.6},
		{StudentID: "101", CourseID: "C2", Marks: 70.3},
	}
	summary, err := ForStudent(records, " 101 ")
	require.NoError(t, err)
	assert.Equal(t, 150, summary.TotalMarks)
}

func TestForStudentNoMatch(t *testing.T) {
	summary, err := ForStudent(sample, "999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoData))
	assert.Empty(t, summary.Rows)
	assert.Zero(t, summary.TotalMarks)
}

func TestForStudentZeroTotalIsNotNoData(t *testing.T) {
	records := []Record{{StudentID: "105", CourseID: "C1", Marks: 0}}
	summary, err := ForStudent(records, "105")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalMarks)
	assert.Len(t, summary.Rows, 1)
}

func TestForCourse(t *testing.T) {
	summary, err := ForCourse(sample, "C1")
	require.NoError(t, err)
	assert.Equal(t, 70.0, summary.Average)
	assert.Equal(t, 80.0, summary.Maximum)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, []float64{80, 60}, summary.Marks)
}

func TestForCourseKeepsPrecision(t *testing.T) {
	records := []Record{
		{StudentID: "1", CourseID: "2001", Marks: 10},
		{StudentID: "2", CourseID: "2001", Marks: 10},
		{StudentID: "3", CourseID: "2001", Marks: 11},
	}
	summary, err := ForCourse(records, "2001")
	require.NoError(t, err)
	assert.InDelta(t, 10.333333, summary.Average, 1e-6)
}

func TestForCourseNoMatch(t *testing.T) {
	summary, err := ForCourse(sample, "C9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoData))
	assert.Zero(t, summary.Average)
	assert.Zero(t, summary.Count)
}

func TestLoadCSV(t *testing.T) {
	input := "Student id, Course id, Marks\n1001, 2001, 56\n1002, 2001, 78.5\n\n1001 ,2002,  90\n"
	ds, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Student id", "Course id", "Marks"}, ds.Header)
	require.Len(t, ds.Records, 3)
	assert.Equal(t, Record{StudentID: "1001", CourseID: "2001", Marks: 56}, ds.Records[0])
	assert.Equal(t, Record{StudentID: "1001", CourseID: "2002", Marks: 90}, ds.Records[2])

	summary, err := ForCourse(ds.Records, "2001")
	require.NoError(t, err)
	assert.Equal(t, 78.5, summary.Maximum)
}

func TestLoadCSVUsesLastColumnForMarks(t *testing.T) {
	input := "student,course,term,marks\n1001,2001,fall,40\n"
	ds, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, 40.0, ds.Records[0].Marks)
}

func TestLoadCSVMalformed(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"short header":   "student,marks\n",
		"short row":      "s,c,m\n1001,20\n",
		"non numeric":    "s,c,m\n1001,2001,abc\n",
		"negative marks": "s,c,m\n1001,2001,-5\n",
		"missing id":     "s,c,m\n,2001,5\n",
		"infinite marks": "s,c,m\n1001,2001,80\n1002,2001,inf\n",
		"infinity word":  "s,c,m\n1001,2001,Infinity\n",
		"nan marks":      "s,c,m\n1001,2001,NaN\n",
		"repeated pair":  "s,c,m\n1001,2001,80\n1001, 2001, 70\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedCSV))
		})
	}
}

func TestLoadCSVRepeatedPairNamesLines(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("s,c,m\n1001,2001,80\n1001,2002,60\n1001,2001,70\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
	assert.Contains(t, err.Error(), "line 2")
}

func TestHistogramToleratesUnboundedValues(t *testing.T) {
	var bins []Bin
	assert.NotPanics(t, func() {
		bins = Histogram([]float64{80, math.Inf(1)}, 10)
	})
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 2, total)
}

func TestHistogram(t *testing.T) {
	assert.Nil(t, Histogram(nil, 5))

	bins := Histogram([]float64{0, 10, 20, 30, 40}, 4)
	require.Len(t, bins, 4)
	assert.Equal(t, 0.0, bins[0].Low)
	assert.Equal(t, 40.0, bins[3].High)
	assert.Equal(t, []int{1, 1, 1, 2}, counts(bins))

	single := Histogram([]float64{7, 7, 7}, 10)
	require.Len(t, single, 1)
	assert.Equal(t, 3, single[0].Count)

	total := 0
	for _, b := range Histogram([]float64{56, 78, 91, 45, 60, 60, 99}, 0) {
		total += b.Count
	}
	assert.Equal(t, 7, total)
}

func counts(bins []Bin) []int {
	out := make([]int, len(bins))
	for i, b := range bins {
		out[i] = b.Count
	}
	return out
}
