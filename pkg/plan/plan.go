// Package plan defines the canonical content plan schema and the
// normalization of untrusted model output into it.
package plan

import "strings"

// Day counts requested from the model
const (
	DemoDays = 2
	FullDays = 7
)

// DefaultAudience is the display text used when the caller leaves the
// audience blank
const DefaultAudience = "General public"

// Request is a validated, trimmed plan generation request
type Request struct {
	Niche    string
	Audience string
	Platform string
	Goal     string
	Days     int
}

// AudienceOrDefault returns the audience text, falling back to the default
func (r Request) AudienceOrDefault() string {
	if strings.TrimSpace(r.Audience) == "" {
		return DefaultAudience
	}
	return r.Audience
}

// Plan is the canonical five-field plan schema. Schedule is always a
// slice of plain strings post-normalization, regardless of the shape
// returned by the model.
type Plan struct {
	Strategy     string   `json:"strategy"`
	Schedule     []string `json:"schedule"`
	ProTip       string   `json:"proTip"`
	BestPostTime string   `json:"bestPostTime"`
	Hashtags     string   `json:"hashtags"`
}
