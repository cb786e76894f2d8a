package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrMissingTranscript is returned when the payload carries no transcript path.
// It is a configuration problem on the host side, distinct from an empty transcript.
var ErrMissingTranscript = errors.New("transcript_path not provided")

// claudePayload is the statusline payload sent by Claude Code.
type claudePayload struct {
	Model *struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"model"`
	Workspace *struct {
		CurrentDir string `json:"current_dir"`
	} `json:"workspace"`
	TranscriptPath string `json:"transcript_path"`
}

// geminiPayload is the hook payload sent by Gemini CLI.
type geminiPayload struct {
	Cwd            string `json:"cwd"`
	TranscriptPath string `json:"transcript_path"`
}

// DecodeClaudeInput reads a Claude Code statusline payload.
// model.display_name, workspace.current_dir and transcript_path are required;
// model.id falls back to the display name.
func DecodeClaudeInput(r io.Reader) (SessionInput, error) {
	var p claudePayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return SessionInput{}, fmt.Errorf("decoding statusline input: %w", err)
	}
	if p.Model == nil || p.Model.DisplayName == "" {
		return SessionInput{}, errors.New("statusline input: missing model.display_name")
	}
	if p.Workspace == nil || p.Workspace.CurrentDir == "" {
		return SessionInput{}, errors.New("statusline input: missing workspace.current_dir")
	}
	if p.TranscriptPath == "" {
		return SessionInput{}, fmt.Errorf("statusline input: %w", ErrMissingTranscript)
	}

	in := SessionInput{
		ModelName:      p.Model.DisplayName,
		ModelID:        p.Model.ID,
		WorkingDir:     p.Workspace.CurrentDir,
		TranscriptPath: p.TranscriptPath,
	}
	if in.ModelID == "" {
		in.ModelID = in.ModelName
	}
	return in, nil
}

// DecodeGeminiInput reads a Gemini CLI hook payload. cwd falls back to the
// process working directory; the model is learned from the transcript later.
func DecodeGeminiInput(r io.Reader) (SessionInput, error) {
	var p geminiPayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return SessionInput{}, fmt.Errorf("decoding hook input: %w", err)
	}
	in := SessionInput{
		WorkingDir:     p.Cwd,
		TranscriptPath: p.TranscriptPath,
	}
	if in.WorkingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return SessionInput{}, fmt.Errorf("resolving working directory: %w", err)
		}
		in.WorkingDir = wd
	}
	if in.TranscriptPath == "" {
		return in, fmt.Errorf("hook input: %w", ErrMissingTranscript)
	}
	return in, nil
}
