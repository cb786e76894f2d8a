package source

// RawEntry represents a single line in a Claude Code JSONL transcript.
type RawEntry struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp,omitempty"`
	SessionID string      `json:"sessionId,omitempty"`
	Message   *RawMessage `json:"message,omitempty"`
}

// RawMessage represents the assistant's message envelope.
type RawMessage struct {
	ID    string    `json:"id"`
	Role  string    `json:"role"`
	Model string    `json:"model"`
	Usage *RawUsage `json:"usage,omitempty"`
}

// RawUsage holds token counts from the API response.
type RawUsage struct {
	InputTokens              int64          `json:"input_tokens"`
	OutputTokens             int64          `json:"output_tokens"`
	CacheCreationInputTokens int64          `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64          `json:"cache_read_input_tokens"`
	CacheCreation            *CacheCreation `json:"cache_creation,omitempty"`
}

// CacheCreation holds the breakdown of cache write tokens by TTL bucket.
type CacheCreation struct {
	Ephemeral5mInputTokens int64 `json:"ephemeral_5m_input_tokens"`
	Ephemeral1hInputTokens int64 `json:"ephemeral_1h_input_tokens"`
}

// Total returns the context tokens consumed by the turn: input, cache writes,
// cache reads and output.
func (u *RawUsage) Total() int64 {
	cacheWrite := u.CacheCreationInputTokens
	if cacheWrite == 0 && u.CacheCreation != nil {
		cacheWrite = u.CacheCreation.Ephemeral5mInputTokens + u.CacheCreation.Ephemeral1hInputTokens
	}
	return u.InputTokens + cacheWrite + u.CacheReadInputTokens + u.OutputTokens
}

// GeminiMessage is one record of a Gemini CLI transcript.
type GeminiMessage struct {
	Role          string       `json:"role"`
	UsageMetadata *GeminiUsage `json:"usage_metadata,omitempty"`
}

// GeminiUsage holds the usage block attached to model turns.
type GeminiUsage struct {
	TotalTokens int64  `json:"total_tokens"`
	ModelName   string `json:"model_name,omitempty"`
}
