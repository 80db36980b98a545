// Package types provides type definitions for structured data used throughout the ats-resume system.
package types

import (
	"bytes"
	"encoding/json"
)

// ResumeData is the root résumé record consumed by the rendering pipeline.
// Slices keep their order all the way into the rendered document.
type ResumeData struct {
	Name         string `json:"name" yaml:"name"`
	Title        string `json:"title" yaml:"title"`
	Email        string `json:"email" yaml:"email"`
	PhoneE164    string `json:"phone_e164" yaml:"phone_e164"`       // dialable form, e.g. +5511999999999
	PhoneDisplay string `json:"phone_display" yaml:"phone_display"` // human form, e.g. (11) 99999-9999
	Location     string `json:"location" yaml:"location"`
	Summary      string `json:"summary" yaml:"summary"`

	LinkedInURL string `json:"linkedin_url" yaml:"linkedin_url"`
	GitHubURL   string `json:"github_url" yaml:"github_url"`
	WebsiteURL  string `json:"website_url" yaml:"website_url"`

	Skills     []SkillGroup `json:"skills" yaml:"skills"`
	Projects   []Project    `json:"projects" yaml:"projects"`
	Experience []Experience `json:"experience" yaml:"experience"`
	Education  []Education  `json:"education" yaml:"education"`
	Languages  []Language   `json:"languages" yaml:"languages"`
}

// SkillGroup is a labelled list of skills, rendered comma-joined.
type SkillGroup struct {
	Group string   `json:"group" yaml:"group"`
	Items []string `json:"items" yaml:"items"`
}

// Project is a portfolio entry with optional links.
type Project struct {
	Title   string        `json:"title" yaml:"title"`
	Stack   string        `json:"stack" yaml:"stack"`
	Bullets []string      `json:"bullets" yaml:"bullets"`
	Links   []ProjectLink `json:"links,omitempty" yaml:"links,omitempty"`
}

// ProjectLink is a labelled URL attached to a project.
type ProjectLink struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Experience is a single role held at an organization.
type Experience struct {
	Role    string   `json:"role" yaml:"role"`
	Company string   `json:"company" yaml:"company"`
	Date    string   `json:"date" yaml:"date"` // free-text range, e.g. "2021 – Present"
	Bullets []string `json:"bullets" yaml:"bullets"`
}

// Education is a degree or course entry.
type Education struct {
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"` // institution
	Date     string `json:"date" yaml:"date"`
}

// Language is a spoken language with proficiency.
type Language struct {
	Name  string `json:"name" yaml:"name"`
	Level string `json:"level" yaml:"level"`
	Note  string `json:"note" yaml:"note"`
}

// UnwrapJSONBody returns the JSON object carried by raw. Request bodies arrive either as
// an object or as a JSON string whose content is the object; the latter is unquoted once.
func UnwrapJSONBody(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &InputMalformedError{Message: "request body is empty"}
	}

	if trimmed[0] != '"' {
		return trimmed, nil
	}

	var inner string
	if err := json.Unmarshal(trimmed, &inner); err != nil {
		return nil, &InputMalformedError{Message: "body is not a valid JSON string", Cause: err}
	}
	return bytes.TrimSpace([]byte(inner)), nil
}

// ParseResume decodes a résumé from a request body (object or string-encoded object).
func ParseResume(raw []byte) (ResumeData, error) {
	body, err := UnwrapJSONBody(raw)
	if err != nil {
		return ResumeData{}, err
	}

	var data ResumeData
	if err := json.Unmarshal(body, &data); err != nil {
		return ResumeData{}, &InputMalformedError{Message: "body does not match the résumé shape", Cause: err}
	}
	return data, nil
}
