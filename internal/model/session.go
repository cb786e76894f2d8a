// Package model defines domain types for ctxline status lines.
package model

// SessionInput is the session state handed to ctxline on stdin, normalized
// across integrations.
type SessionInput struct {
	ModelName      string
	ModelID        string
	WorkingDir     string
	TranscriptPath string
}

// UsageSnapshot is the token usage of the most recent usage-bearing turn in a
// transcript. The zero value means no usage was found.
type UsageSnapshot struct {
	TokensUsed    int64
	ReportedModel string // empty when the transcript does not name a model
}

// ContextUsage relates used tokens to a model's context window.
type ContextUsage struct {
	Used       int64
	Limit      int64
	Percentage float64
}

// NewContextUsage computes the usage percentage. A non-positive limit yields 0%.
func NewContextUsage(used, limit int64) ContextUsage {
	cu := ContextUsage{Used: used, Limit: limit}
	if limit > 0 {
		cu.Percentage = float64(used) / float64(limit) * 100
	}
	return cu
}
