package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/ats-resume/internal/pipeline"
	"github.com/jonathan/ats-resume/internal/schemas"
	"github.com/jonathan/ats-resume/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume(types.ResumeData{
		Name:     "Ada Lovelace",
		Title:    "Analyst",
		Location: "London",
		Skills:   []types.SkillGroup{{Group: "Lang", Items: []string{"Go"}}},
		Projects: []types.Project{{Title: "Engine", Bullets: []string{"a", "b"}}},
		Experience: []types.Experience{
			{Role: "Analyst", Company: "Babbage", Date: "1842", Bullets: []string{"Notes"}},
		},
	})

	output := buf.String()
	assert.Contains(t, output, "Résumé")
	assert.Contains(t, output, "Ada Lovelace")
	assert.Contains(t, output, "1 skill groups, 1 projects, 1 roles, 0 education, 0 languages")
	assert.Contains(t, output, "Bullets:  3")
	assert.Contains(t, output, "Analyst @ Babbage (1842)")
}

func TestPrintResume_TruncatesLongExperienceList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	data := types.ResumeData{Name: "Ada"}
	for i := 0; i < 8; i++ {
		data.Experience = append(data.Experience, types.Experience{Role: "Role", Company: "Co"})
	}
	p.PrintResume(data)

	output := buf.String()
	assert.Equal(t, maxItemsToShow, strings.Count(output, "Role @ Co"))
	assert.Contains(t, output, "... and 3 more")
}

func TestPrintResume_OmitsEmptyOptionalFields(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResume(types.ResumeData{Name: "Ada"})

	output := buf.String()
	assert.NotContains(t, output, "Title:")
	assert.NotContains(t, output, "Location:")
	assert.NotContains(t, output, "Experience:")
}

func TestPrintValidation_Valid(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintValidation("cv.json", nil)

	assert.Contains(t, buf.String(), "cv.json")
	assert.Contains(t, buf.String(), "✓")
}

func TestPrintValidation_SchemaErrors(t *testing.T) {
	err := schemas.ValidateResume([]byte(`{"name": 5, "skills": "Go"}`))
	require.Error(t, err)

	var buf bytes.Buffer
	NewPrinter(&buf).PrintValidation("cv.json", err)

	output := buf.String()
	assert.Contains(t, output, "✗ 2 problem(s) found")
	assert.Contains(t, output, "name")
	assert.Contains(t, output, "skills")
}

func TestPrintValidation_OtherError(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintValidation("cv.json", errors.New("unexpected end of JSON input"))

	assert.Contains(t, buf.String(), "✗ unexpected end of JSON input")
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgress(pipeline.ProgressEvent{
		Step:     pipeline.StepCompose,
		Message:  "HTML composed",
		Duration: 1500 * time.Microsecond,
	})

	assert.Contains(t, buf.String(), "HTML composed")
	assert.Contains(t, buf.String(), "2ms")
}

func TestPrintExport(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintExport("out/cv.pdf", 48*1024, 1234*time.Millisecond)

	output := buf.String()
	assert.Contains(t, output, "out/cv.pdf")
	assert.Contains(t, output, "48.0 KB")
	assert.Contains(t, output, "1.234s")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2<<20))
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("Title", "A very long line of résumé text that certainly does not fit inside the box width")
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.Contains(t, output, "...")
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
}
