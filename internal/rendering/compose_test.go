package rendering

import (
	"strings"
	"testing"

	"github.com/jonathan/ats-resume/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = `<!doctype html>
<html>
<head>
<meta charset="utf-8" />
<title>{{NAME}}</title>
<link rel="stylesheet" href="./style.css" />
</head>
<body>
<h1>{{NAME}}</h1>
<p>{{TITLE}} · {{LOCATION}}</p>
<a href="mailto:{{EMAIL}}">{{EMAIL}}</a>
<a href="tel:{{PHONE_E164}}">{{PHONE_DISPLAY}}</a>
<a href="{{LINKEDIN_URL}}">{{LINKEDIN_TEXT}}</a>
<a href="{{GITHUB_URL}}">{{GITHUB_TEXT}}</a>
<a href="{{WEBSITE_URL}}">{{WEBSITE_TEXT}}</a>
<section>{{SUMMARY}}</section>
<section>{{SKILLS_HTML}}</section>
<section>{{PROJECTS_HTML}}</section>
<section>{{EXPERIENCE_HTML}}</section>
<section>{{EDUCATION_HTML}}</section>
<section>{{LANGUAGES_HTML}}</section>
</body>
</html>`

const testCSS = `body { font-family: sans-serif; }`

func sampleResume() types.ResumeData {
	return types.ResumeData{
		Name:         "Ada Lovelace",
		Title:        "Analyst & Programmer",
		Email:        "ada@example.com",
		PhoneE164:    "+441234567890",
		PhoneDisplay: "+44 1234 567890",
		Location:     "London",
		Summary:      "Wrote the first <algorithm>.",
		LinkedInURL:  "https://www.linkedin.com/in/ada",
		GitHubURL:    "http://github.com/ada",
		WebsiteURL:   "ada.dev",
		Skills:       []types.SkillGroup{{Group: "Lang", Items: []string{"Go", "Rust"}}},
		Projects:     []types.Project{{Title: "Engine", Stack: "Brass", Bullets: []string{"Gears"}}},
		Experience:   []types.Experience{{Role: "Analyst", Company: "Babbage", Date: "1842", Bullets: []string{"Notes"}}},
		Education:    []types.Education{{Title: "Mathematics", Subtitle: "Private tutoring", Date: "1830s"}},
		Languages:    []types.Language{{Name: "French", Level: "Fluent", Note: ""}},
	}
}

func TestCompose_InlinesStylesheet(t *testing.T) {
	out, err := Compose(sampleResume(), testTemplate, testCSS)
	require.NoError(t, err)

	assert.NotContains(t, out, `<link rel="stylesheet"`)
	assert.Contains(t, out, "<style>"+testCSS+"</style>")
}

func TestCompose_InjectsStyleWhenLinkMissing(t *testing.T) {
	tmpl := strings.Replace(testTemplate, StylesheetLink, "", 1)
	out, err := Compose(sampleResume(), tmpl, testCSS)
	require.NoError(t, err)

	assert.Contains(t, out, "<style>"+testCSS+"</style></head>")
}

func TestCompose_ScalarsEscapedURLsRaw(t *testing.T) {
	out, err := Compose(sampleResume(), testTemplate, testCSS)
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>Ada Lovelace</h1>")
	assert.Contains(t, out, "Analyst &amp; Programmer")
	assert.Contains(t, out, "Wrote the first &lt;algorithm&gt;.")
	assert.Contains(t, out, `<a href="https://www.linkedin.com/in/ada">www.linkedin.com/in/ada</a>`)
	assert.Contains(t, out, `<a href="http://github.com/ada">github.com/ada</a>`)
	assert.Contains(t, out, `<a href="ada.dev">ada.dev</a>`)
	assert.Contains(t, out, `<a href="tel:+441234567890">+44 1234 567890</a>`)
}

func TestCompose_NoUnresolvedPlaceholders(t *testing.T) {
	out, err := Compose(sampleResume(), testTemplate, testCSS)
	require.NoError(t, err)
	assert.Empty(t, UnresolvedPlaceholders(out))
}

func TestCompose_EmptyCollections(t *testing.T) {
	data := types.ResumeData{Name: "Ada Lovelace"}

	out, err := Compose(data, testTemplate, testCSS)
	require.NoError(t, err)

	assert.Empty(t, UnresolvedPlaceholders(out))
	assert.Equal(t, 6, strings.Count(out, "<section></section>"), "summary and all five fragments blank")
	assert.Contains(t, out, `<a href=""></a>`)
}

func TestCompose_Deterministic(t *testing.T) {
	first, err := Compose(sampleResume(), testTemplate, testCSS)
	require.NoError(t, err)
	second, err := Compose(sampleResume(), testTemplate, testCSS)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompose_TokenInContentIsNotResubstituted(t *testing.T) {
	data := sampleResume()
	data.Summary = "literal {{NAME}} token"
	data.Experience[0].Bullets = []string{"{{SKILLS_HTML}}"}

	out, err := Compose(data, testTemplate, testCSS)
	require.NoError(t, err)

	assert.Contains(t, out, "<section>literal {{NAME}} token</section>")
	assert.Contains(t, out, "<li>{{SKILLS_HTML}}</li>")
}

func TestCompose_TemplateMismatch(t *testing.T) {
	_, err := Compose(sampleResume(), "<html><body>Single page app</body></html>", testCSS)
	require.Error(t, err)

	var mismatch *TemplateMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.ElementsMatch(t, []string{TokenName, TokenSkillsHTML}, mismatch.Missing)
}

func TestCompose_DoesNotMutateInput(t *testing.T) {
	data := sampleResume()
	before := sampleResume()

	_, err := Compose(data, testTemplate, testCSS)
	require.NoError(t, err)
	assert.Equal(t, before, data)
}

func TestDisplayURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://github.com/ada", "github.com/ada"},
		{"http://ada.dev", "ada.dev"},
		{"ada.dev", "ada.dev"},
		{"", ""},
		{"ftp://files.example.com", "ftp://files.example.com"},
		{"https://https://double", "https://double"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayURL(tt.in))
		})
	}
}

func TestPlaceholders_CoversAllTokens(t *testing.T) {
	subs := Placeholders(sampleResume())
	tokens := make([]string, 0, len(subs))
	for _, s := range subs {
		tokens = append(tokens, s.Token)
	}
	assert.Equal(t, AllTokens, tokens)
}
