package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/ctxline/internal/model"
)

// writeTranscript creates a temp transcript file and returns its path.
func writeTranscript(t *testing.T, name string, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestJSONLSource_LastUsageWins(t *testing.T) {
	path := writeTranscript(t, "t.jsonl",
		`{"type":"assistant","message":{"id":"m1","model":"claude-sonnet-4-5","usage":{"input_tokens":900000,"output_tokens":1}}}`,
		`{"type":"assistant","message":{"id":"m2","model":"claude-sonnet-4-5","usage":{"input_tokens":100,"cache_creation_input_tokens":200,"cache_read_input_tokens":300,"output_tokens":400}}}`,
		`{"type":"user","message":{"role":"user","content":"thanks"}}`,
	)

	src := JSONLSource{Schema: ClaudeSchema{}}
	res := src.Scan(path)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if !res.Found {
		t.Fatal("expected a usage record")
	}
	if res.Snapshot.TokensUsed != 1000 {
		t.Errorf("TokensUsed = %d, want 1000 (last record, not largest)", res.Snapshot.TokensUsed)
	}
	if res.Snapshot.ReportedModel != "claude-sonnet-4-5" {
		t.Errorf("ReportedModel = %q, want claude-sonnet-4-5", res.Snapshot.ReportedModel)
	}
	if res.Scanned != 2 {
		t.Errorf("Scanned = %d, want 2 (stops at first match)", res.Scanned)
	}
}

func TestJSONLSource_NoUsageRecords(t *testing.T) {
	path := writeTranscript(t, "t.jsonl",
		`{"type":"user","message":{"role":"user","content":"hi"}}`,
		`{"type":"assistant","message":{"id":"m1","content":[]}}`,
		`{"type":"system","subtype":"turn_duration","durationMs":5000}`,
	)

	got := JSONLSource{Schema: ClaudeSchema{}}.Usage(path)
	if got != (model.UsageSnapshot{}) {
		t.Errorf("Usage = %+v, want zero snapshot", got)
	}
}

func TestJSONLSource_EmptyFile(t *testing.T) {
	path := writeTranscript(t, "t.jsonl")
	res := JSONLSource{Schema: ClaudeSchema{}}.Scan(path)
	if res.Err != nil {
		t.Fatalf("unexpected error on empty file: %v", res.Err)
	}
	if res.Found || res.Snapshot.TokensUsed != 0 {
		t.Error("expected zero usage for empty file")
	}
}

func TestJSONLSource_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.jsonl")
	src := JSONLSource{Schema: ClaudeSchema{}}

	res := src.Scan(path)
	if !errors.Is(res.Err, os.ErrNotExist) {
		t.Errorf("Err = %v, want not-exist", res.Err)
	}
	if got := src.Usage(path); got.TokensUsed != 0 {
		t.Errorf("TokensUsed = %d, want 0", got.TokensUsed)
	}
}

func TestJSONLSource_MalformedLines(t *testing.T) {
	path := writeTranscript(t, "t.jsonl",
		`{"type":"assistant","message":{"id":"m1","usage":{"input_tokens":42}}}`,
		`not json at all`,
		`{"type":"assistant","broken json`,
		``,
	)

	res := JSONLSource{Schema: ClaudeSchema{}}.Scan(path)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	// Malformed lines should be skipped, not cause a fatal error.
	if res.Snapshot.TokensUsed != 42 {
		t.Errorf("TokensUsed = %d, want 42", res.Snapshot.TokensUsed)
	}
	if res.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", res.ParseErrors)
	}
}

func TestJSONLSource_CacheCreationBreakdown(t *testing.T) {
	path := writeTranscript(t, "t.jsonl",
		`{"type":"assistant","message":{"id":"m1","usage":{"input_tokens":100,"output_tokens":50,"cache_read_input_tokens":500,"cache_creation":{"ephemeral_5m_input_tokens":200,"ephemeral_1h_input_tokens":300}}}}`,
	)

	got := JSONLSource{Schema: ClaudeSchema{}}.Usage(path)
	if got.TokensUsed != 1150 {
		t.Errorf("TokensUsed = %d, want 1150", got.TokensUsed)
	}
}

func TestJSONLSource_NullUsageSkipped(t *testing.T) {
	path := writeTranscript(t, "t.jsonl",
		`{"type":"assistant","message":{"id":"m1","usage":{"input_tokens":7}}}`,
		`{"type":"assistant","message":{"id":"m2","usage":null}}`,
	)

	got := JSONLSource{Schema: ClaudeSchema{}}.Usage(path)
	if got.TokensUsed != 7 {
		t.Errorf("TokensUsed = %d, want 7", got.TokensUsed)
	}
}

func TestArraySource_LastModelTurn(t *testing.T) {
	path := writeTranscript(t, "t.json",
		`[`,
		`{"role":"user","content":"hi"},`,
		`{"role":"model","usage_metadata":{"total_tokens":1200,"model_name":"gemini-1.5-flash"}},`,
		`{"role":"model","usage_metadata":{"total_tokens":3400,"model_name":"gemini-1.5-pro"}},`,
		`{"role":"user","content":"more"}`,
		`]`,
	)

	res := ArraySource{Schema: GeminiSchema{}}.Scan(path)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Snapshot.TokensUsed != 3400 {
		t.Errorf("TokensUsed = %d, want 3400", res.Snapshot.TokensUsed)
	}
	if res.Snapshot.ReportedModel != "gemini-1.5-pro" {
		t.Errorf("ReportedModel = %q, want gemini-1.5-pro", res.Snapshot.ReportedModel)
	}
	if res.Fallback {
		t.Error("Fallback = true, want false for a valid array")
	}
}

func TestArraySource_UserRoleIgnored(t *testing.T) {
	path := writeTranscript(t, "t.json",
		`[{"role":"user","usage_metadata":{"total_tokens":99}}]`,
	)

	got := ArraySource{Schema: GeminiSchema{}}.Usage(path)
	if got.TokensUsed != 0 {
		t.Errorf("TokensUsed = %d, want 0", got.TokensUsed)
	}
}

func TestArraySource_FallsBackToJSONL(t *testing.T) {
	path := writeTranscript(t, "t.jsonl",
		`{"role":"model","usage_metadata":{"total_tokens":10}}`,
		`{"role":"model","usage_metadata":{"total_tokens":20,"model_name":"gemini-2.0-flash-exp"}}`,
		`{"role":"user","content":"ok"}`,
	)

	withFallback := ArraySource{Schema: GeminiSchema{}, FallbackJSONL: true}.Scan(path)
	if !withFallback.Fallback {
		t.Error("Fallback = false, want true")
	}
	if withFallback.Snapshot.TokensUsed != 20 {
		t.Errorf("TokensUsed = %d, want 20", withFallback.Snapshot.TokensUsed)
	}

	without := ArraySource{Schema: GeminiSchema{}}.Scan(path)
	if without.Err == nil {
		t.Error("expected decode error without fallback")
	}
	if without.Snapshot.TokensUsed != 0 {
		t.Errorf("TokensUsed = %d, want 0 without fallback", without.Snapshot.TokensUsed)
	}
}

func TestNew(t *testing.T) {
	if _, err := New(FormatJSONL, ClaudeSchema{}, false); err != nil {
		t.Errorf("New(jsonl) error: %v", err)
	}
	src, err := New(FormatArray, GeminiSchema{}, true)
	if err != nil {
		t.Fatalf("New(array) error: %v", err)
	}
	if as, ok := src.(ArraySource); !ok || !as.FallbackJSONL {
		t.Errorf("New(array, fallback) = %#v", src)
	}
	if _, err := New("xml", ClaudeSchema{}, false); err == nil {
		t.Error("New(xml) should fail")
	}
}

func TestExtractTopLevelType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"user", `{"type":"user","foo":"bar"}`, "user"},
		{"assistant", `{"type":"assistant","message":{}}`, "assistant"},
		{"system", `{"type": "system","subtype":"turn_duration"}`, "system"},
		{"nested type ignored", `{"data":{"type":"progress"},"type":"user"}`, "user"},
		{"nested assistant ignored", `{"data":{"type":"assistant"},"type":"progress"}`, ""},
		{"unknown type", `{"type":"progress","data":{}}`, ""},
		{"no type field", `{"message":"hello"}`, ""},
		{"empty", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractTopLevelType([]byte(tt.input))
			if got != tt.want {
				t.Errorf("extractTopLevelType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// FuzzExtractTopLevelType tests that the byte-level parser never panics
// on arbitrary input, which is important since it processes untrusted files.
func FuzzExtractTopLevelType(f *testing.F) {
	f.Add([]byte(`{"type":"user","timestamp":"2025-06-01T10:00:00Z"}`))
	f.Add([]byte(`{"type":"assistant","message":{"id":"x","usage":{}}}`))
	f.Add([]byte(`{"data":{"type":"nested"},"type":"user"}`))
	f.Add([]byte(`not json`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`{"type":null}`))
	f.Add([]byte(`{"type":123}`))
	f.Add([]byte(``))
	f.Add([]byte(`{"type":"user`)) // unterminated string

	f.Fuzz(func(t *testing.T, data []byte) {
		result := extractTopLevelType(data)

		switch result {
		case "", "user", "assistant", "system":
		default:
			t.Errorf("unexpected type %q from input %q", result, data)
		}
	})
}
