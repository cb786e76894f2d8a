package source

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/theirongolddev/ctxline/internal/model"
)

// Schema recognizes usage-bearing records in one transcript dialect.
type Schema interface {
	Name() string
	// Match reports the usage carried by record when it is a completed model
	// turn with a usage block. err is non-nil only when the record could not
	// be decoded.
	Match(record []byte) (snap model.UsageSnapshot, ok bool, err error)
}

// SchemaByName returns the schema registered under name.
func SchemaByName(name string) (Schema, error) {
	switch name {
	case "claude":
		return ClaudeSchema{}, nil
	case "gemini":
		return GeminiSchema{}, nil
	}
	return nil, fmt.Errorf("unknown transcript schema %q (want claude or gemini)", name)
}

// ClaudeSchema matches Claude Code assistant entries carrying message.usage.
type ClaudeSchema struct{}

// Name implements Schema.
func (ClaudeSchema) Name() string { return "claude" }

// Match implements Schema. Non-assistant lines are rejected by a byte-level
// scan of the top-level "type" field before any full decode.
func (ClaudeSchema) Match(record []byte) (model.UsageSnapshot, bool, error) {
	if extractTopLevelType(record) != "assistant" {
		return model.UsageSnapshot{}, false, nil
	}

	var entry RawEntry
	if err := json.Unmarshal(record, &entry); err != nil {
		return model.UsageSnapshot{}, false, err
	}
	if entry.Message == nil || entry.Message.Usage == nil {
		return model.UsageSnapshot{}, false, nil
	}

	return model.UsageSnapshot{
		TokensUsed:    nonNegative(entry.Message.Usage.Total()),
		ReportedModel: entry.Message.Model,
	}, true, nil
}

// GeminiSchema matches Gemini CLI model turns carrying usage_metadata.
type GeminiSchema struct{}

// Name implements Schema.
func (GeminiSchema) Name() string { return "gemini" }

// Match implements Schema.
func (GeminiSchema) Match(record []byte) (model.UsageSnapshot, bool, error) {
	if !bytes.Contains(record, patUsageMetadata) {
		return model.UsageSnapshot{}, false, nil
	}

	var msg GeminiMessage
	if err := json.Unmarshal(record, &msg); err != nil {
		return model.UsageSnapshot{}, false, err
	}
	if msg.Role != "model" || msg.UsageMetadata == nil {
		return model.UsageSnapshot{}, false, nil
	}

	return model.UsageSnapshot{
		TokensUsed:    nonNegative(msg.UsageMetadata.TotalTokens),
		ReportedModel: msg.UsageMetadata.ModelName,
	}, true, nil
}

var patUsageMetadata = []byte(`"usage_metadata"`)

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
