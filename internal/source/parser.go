// Package source extracts the most recent token usage from assistant transcripts.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/ctxline/internal/model"
)

// UsageSource produces the usage snapshot for a transcript. It never fails:
// any problem with the transcript yields the zero snapshot.
type UsageSource interface {
	Usage(path string) model.UsageSnapshot
}

// Format names a transcript file encoding.
type Format string

// Supported transcript encodings.
const (
	FormatJSONL Format = "jsonl"
	FormatArray Format = "array"
)

// ScanResult holds the output of scanning a single transcript.
type ScanResult struct {
	Snapshot    model.UsageSnapshot
	Found       bool
	Scanned     int // records examined, newest first
	ParseErrors int
	Fallback    bool // whole-file decode failed and lines were scanned instead
	Err         error
}

// New builds a source for the given encoding. fallback only applies to
// FormatArray and enables re-reading the file as JSON Lines when it is not a
// JSON array.
func New(format Format, schema Schema, fallback bool) (UsageSource, error) {
	switch format {
	case FormatJSONL:
		return JSONLSource{Schema: schema}, nil
	case FormatArray:
		return ArraySource{Schema: schema, FallbackJSONL: fallback}, nil
	}
	return nil, fmt.Errorf("unknown transcript format %q (want jsonl or array)", format)
}

// JSONLSource reads newline-delimited JSON transcripts.
type JSONLSource struct {
	Schema Schema
}

// Usage implements UsageSource.
func (s JSONLSource) Usage(path string) model.UsageSnapshot {
	return logResult(path, s.Scan(path)).Snapshot
}

// Scan walks the file from its last line to its first and stops at the first
// line the schema accepts. Undecodable lines are counted and skipped.
func (s JSONLSource) Scan(path string) ScanResult {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the host payload
	if err != nil {
		return ScanResult{Err: err}
	}
	return scanLines(data, s.Schema)
}

// ArraySource reads transcripts stored as a single JSON array of records.
type ArraySource struct {
	Schema        Schema
	FallbackJSONL bool
}

// Usage implements UsageSource.
func (s ArraySource) Usage(path string) model.UsageSnapshot {
	return logResult(path, s.Scan(path)).Snapshot
}

// Scan decodes the whole file and walks the array from its last element.
func (s ArraySource) Scan(path string) ScanResult {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the host payload
	if err != nil {
		return ScanResult{Err: err}
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		if !s.FallbackJSONL {
			return ScanResult{Err: fmt.Errorf("decoding transcript array: %w", err)}
		}
		res := scanLines(data, s.Schema)
		res.Fallback = true
		return res
	}

	var res ScanResult
	for i := len(records) - 1; i >= 0; i-- {
		res.Scanned++
		snap, ok, err := s.Schema.Match(records[i])
		if err != nil {
			res.ParseErrors++
			continue
		}
		if ok {
			res.Snapshot = snap
			res.Found = true
			break
		}
	}
	return res
}

// scanLines walks data backwards one line at a time without splitting the
// whole buffer.
func scanLines(data []byte, schema Schema) ScanResult {
	var res ScanResult
	end := len(data)
	for end > 0 {
		start := bytes.LastIndexByte(data[:end], '\n') + 1
		line := bytes.TrimSpace(data[start:end])
		if len(line) > 0 {
			res.Scanned++
			snap, ok, err := schema.Match(line)
			switch {
			case err != nil:
				res.ParseErrors++
			case ok:
				res.Snapshot = snap
				res.Found = true
				return res
			}
		}
		if start == 0 {
			break
		}
		end = start - 1
	}
	return res
}

func logResult(path string, res ScanResult) ScanResult {
	if res.Err != nil {
		slog.Debug("transcript unreadable, reporting zero usage", "path", path, "error", res.Err)
		return res
	}
	slog.Debug("transcript scanned",
		"path", path,
		"found", res.Found,
		"tokens", res.Snapshot.TokensUsed,
		"scanned", res.Scanned,
		"parse_errors", res.ParseErrors,
		"fallback", res.Fallback,
	)
	return res
}

// typeKey is the byte sequence for a JSON key named "type" (with quotes).
var typeKey = []byte(`"type"`)

// extractTopLevelType finds the top-level "type" field in a JSONL line.
// Tracks brace depth and string boundaries so nested "type" keys are ignored.
// Early-exits once found, so cost does not grow with line length.
func extractTopLevelType(line []byte) string {
	depth := 0
	for i := 0; i < len(line); {
		switch line[i] {
		case '"':
			if depth == 1 && bytes.HasPrefix(line[i:], typeKey) {
				val, isKey := classifyType(line, i+len(typeKey))
				if isKey {
					return val
				}
				// "type" appeared as a value, not a key. Continue scanning.
			}
			i = skipJSONString(line, i)
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
		default:
			i++
		}
	}
	return ""
}

// classifyType checks whether pos follows a JSON key (expects : then value).
// isKey=false means "type" appeared as a value and the caller should continue.
func classifyType(line []byte, pos int) (val string, isKey bool) {
	i := skipSpaces(line, pos)
	if i >= len(line) || line[i] != ':' {
		return "", false
	}
	i = skipSpaces(line, i+1)
	if i >= len(line) || line[i] != '"' {
		return "", true // key with non-string value (null, number, etc.)
	}
	i++

	end := bytes.IndexByte(line[i:], '"')
	if end < 0 || end > 20 {
		return "", true
	}
	v := string(line[i : i+end])
	switch v {
	case "assistant", "user", "system":
		return v, true
	}
	return "", true // valid key but irrelevant type (e.g., "progress")
}

// skipJSONString advances past a JSON string starting at the opening quote.
//
//nolint:gosec // manual bounds checking throughout
func skipJSONString(line []byte, i int) int {
	i++
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipSpaces(line []byte, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}
