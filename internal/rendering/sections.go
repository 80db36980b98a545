package rendering

import (
	"strings"

	"github.com/jonathan/ats-resume/internal/types"
)

// RenderSkills renders one line per skill group as "Label: a, b, c".
// Items are joined before escaping; escaping distributes over concatenation.
func RenderSkills(groups []types.SkillGroup) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, `<div class="item"><div class="item-title">`+EscapeHTML(g.Group)+`:</div> `+
			EscapeHTML(strings.Join(g.Items, ", "))+`</div>`)
	}
	return strings.Join(parts, "\n")
}

// RenderBullets renders bullets as a single list, escaping each item.
func RenderBullets(bullets []string) string {
	var sb strings.Builder
	sb.WriteString(`<ul class="bullets">`)
	for _, b := range bullets {
		sb.WriteString("<li>")
		sb.WriteString(EscapeHTML(b))
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}

// renderLinks renders project links. The URL is written raw into href and
// escaped for the visible text. Returns "" when there are no links.
func renderLinks(links []types.ProjectLink) string {
	if len(links) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<ul class="bullets">`)
	for _, l := range links {
		sb.WriteString("<li>")
		sb.WriteString(EscapeHTML(l.Label))
		sb.WriteString(`: <a href="`)
		sb.WriteString(l.URL)
		sb.WriteString(`" target="_blank" rel="noopener noreferrer">`)
		sb.WriteString(EscapeHTML(l.URL))
		sb.WriteString("</a></li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}

// RenderProjects renders each project with its stack line, bullets and optional links.
func RenderProjects(projects []types.Project) string {
	parts := make([]string, 0, len(projects))
	for _, p := range projects {
		parts = append(parts, `
<div class="item">
  <div class="item-title">`+EscapeHTML(p.Title)+`</div>
  <div class="tech-line">Stack: `+EscapeHTML(p.Stack)+`</div>
  `+RenderBullets(p.Bullets)+`
  `+renderLinks(p.Links)+`
</div>`)
	}
	return strings.Join(parts, "\n")
}

// itemHeader renders the title/subtitle/date block shared by experience and education.
func itemHeader(title, subtitle, date string) string {
	return `
  <div class="item-header">
    <div>
      <div class="item-title">` + EscapeHTML(title) + `</div>
      <div class="item-subtitle">` + EscapeHTML(subtitle) + `</div>
    </div>
    <div class="item-date">` + EscapeHTML(date) + `</div>
  </div>`
}

// RenderExperience renders roles in input order.
func RenderExperience(entries []types.Experience) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, `
<div class="item">`+itemHeader(e.Role, e.Company, e.Date)+`
  `+RenderBullets(e.Bullets)+`
</div>`)
	}
	return strings.Join(parts, "\n")
}

// RenderEducation renders education entries in input order.
func RenderEducation(entries []types.Education) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, `
<div class="item">`+itemHeader(e.Title, e.Subtitle, e.Date)+`
</div>`)
	}
	return strings.Join(parts, "\n")
}

// RenderLanguages renders "Name — Level" with the note in the date column.
func RenderLanguages(langs []types.Language) string {
	parts := make([]string, 0, len(langs))
	for _, l := range langs {
		parts = append(parts, `
<div class="item">
  <div class="item-header">
    <div class="item-title">`+EscapeHTML(l.Name)+` — `+EscapeHTML(l.Level)+`</div>
    <div class="item-date">`+EscapeHTML(l.Note)+`</div>
  </div>
</div>`)
	}
	return strings.Join(parts, "\n")
}
