package rendering

import (
	"regexp"
	"strings"

	"github.com/jonathan/ats-resume/internal/types"
)

// Placeholder tokens in the résumé skeleton.
const (
	TokenName           = "{{NAME}}"
	TokenTitle          = "{{TITLE}}"
	TokenEmail          = "{{EMAIL}}"
	TokenPhoneE164      = "{{PHONE_E164}}"
	TokenPhoneDisplay   = "{{PHONE_DISPLAY}}"
	TokenLocation       = "{{LOCATION}}"
	TokenLinkedInURL    = "{{LINKEDIN_URL}}"
	TokenGitHubURL      = "{{GITHUB_URL}}"
	TokenWebsiteURL     = "{{WEBSITE_URL}}"
	TokenLinkedInText   = "{{LINKEDIN_TEXT}}"
	TokenGitHubText     = "{{GITHUB_TEXT}}"
	TokenWebsiteText    = "{{WEBSITE_TEXT}}"
	TokenSummary        = "{{SUMMARY}}"
	TokenSkillsHTML     = "{{SKILLS_HTML}}"
	TokenProjectsHTML   = "{{PROJECTS_HTML}}"
	TokenExperienceHTML = "{{EXPERIENCE_HTML}}"
	TokenEducationHTML  = "{{EDUCATION_HTML}}"
	TokenLanguagesHTML  = "{{LANGUAGES_HTML}}"
)

// StylesheetLink is the element in the skeleton that gets replaced by the inline stylesheet.
const StylesheetLink = `<link rel="stylesheet" href="./style.css" />`

// stylesheetLinkVariants are the spellings of StylesheetLink accepted by Compose.
var stylesheetLinkVariants = []string{
	StylesheetLink,
	`<link rel="stylesheet" href="./style.css">`,
	`<link rel="stylesheet" href="./style.css"/>`,
}

// guardTokens must be present for a template to be treated as the résumé skeleton.
var guardTokens = []string{TokenName, TokenSkillsHTML}

// AllTokens lists every placeholder Compose substitutes.
var AllTokens = []string{
	TokenName, TokenTitle, TokenEmail, TokenPhoneE164, TokenPhoneDisplay, TokenLocation,
	TokenLinkedInURL, TokenGitHubURL, TokenWebsiteURL,
	TokenLinkedInText, TokenGitHubText, TokenWebsiteText,
	TokenSummary,
	TokenSkillsHTML, TokenProjectsHTML, TokenExperienceHTML, TokenEducationHTML, TokenLanguagesHTML,
}

var tokenPattern = regexp.MustCompile(`\{\{[A-Z0-9_]+\}\}`)

// Substitution is one placeholder and its replacement value.
type Substitution struct {
	Token string
	Value string
}

// Placeholders builds the substitution table for data, in template order.
// Scalars are escaped, URLs are raw (attribute context) and fragments are
// inserted as rendered.
func Placeholders(data types.ResumeData) []Substitution {
	return []Substitution{
		{TokenName, EscapeHTML(data.Name)},
		{TokenTitle, EscapeHTML(data.Title)},
		{TokenEmail, EscapeHTML(data.Email)},
		{TokenPhoneE164, EscapeHTML(data.PhoneE164)},
		{TokenPhoneDisplay, EscapeHTML(data.PhoneDisplay)},
		{TokenLocation, EscapeHTML(data.Location)},
		{TokenLinkedInURL, data.LinkedInURL},
		{TokenGitHubURL, data.GitHubURL},
		{TokenWebsiteURL, data.WebsiteURL},
		{TokenLinkedInText, EscapeHTML(DisplayURL(data.LinkedInURL))},
		{TokenGitHubText, EscapeHTML(DisplayURL(data.GitHubURL))},
		{TokenWebsiteText, EscapeHTML(DisplayURL(data.WebsiteURL))},
		{TokenSummary, EscapeHTML(data.Summary)},
		{TokenSkillsHTML, RenderSkills(data.Skills)},
		{TokenProjectsHTML, RenderProjects(data.Projects)},
		{TokenExperienceHTML, RenderExperience(data.Experience)},
		{TokenEducationHTML, RenderEducation(data.Education)},
		{TokenLanguagesHTML, RenderLanguages(data.Languages)},
	}
}

// DisplayURL strips a leading http:// or https:// scheme for display.
func DisplayURL(url string) string {
	if rest, ok := strings.CutPrefix(url, "https://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(url, "http://"); ok {
		return rest
	}
	return url
}

// CheckTemplate returns a TemplateMismatchError unless templateHTML carries the guard tokens.
func CheckTemplate(templateHTML string) error {
	var missing []string
	for _, token := range guardTokens {
		if !strings.Contains(templateHTML, token) {
			missing = append(missing, token)
		}
	}
	if len(missing) > 0 {
		return &TemplateMismatchError{
			Message: "template is not the résumé skeleton",
			Missing: missing,
		}
	}
	return nil
}

// Compose renders data into templateHTML with css inlined.
//
// The stylesheet link and every placeholder are replaced in a single literal
// left-to-right scan. Replacement text is never rescanned, so user content that
// happens to contain a token (or CSS that does) is emitted as-is.
func Compose(data types.ResumeData, templateHTML, css string) (string, error) {
	if err := CheckTemplate(templateHTML); err != nil {
		return "", err
	}

	styleBlock := "<style>" + css + "</style>"
	hasLink := false
	for _, link := range stylesheetLinkVariants {
		if strings.Contains(templateHTML, link) {
			hasLink = true
			break
		}
	}

	subs := Placeholders(data)
	pairs := make([]string, 0, 2*(len(subs)+len(stylesheetLinkVariants)))
	for _, link := range stylesheetLinkVariants {
		pairs = append(pairs, link, styleBlock)
	}
	for _, s := range subs {
		pairs = append(pairs, s.Token, s.Value)
	}

	out := strings.NewReplacer(pairs...).Replace(templateHTML)
	if !hasLink {
		out = injectStyle(out, styleBlock)
	}
	return out, nil
}

// injectStyle places the style block before </head>, after <body>, or at the start.
func injectStyle(htmlContent, styleBlock string) string {
	lower := strings.ToLower(htmlContent)
	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}
	return styleBlock + htmlContent
}

// UnresolvedPlaceholders returns the placeholder-shaped tokens left in htmlContent.
func UnresolvedPlaceholders(htmlContent string) []string {
	return tokenPattern.FindAllString(htmlContent, -1)
}
