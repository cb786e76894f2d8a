package statusline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/ctxline/internal/cli"
	"github.com/theirongolddev/ctxline/internal/model"
)

// Separator joins segments.
const Separator = " | "

// DirIcon prefixes the directory segment.
const DirIcon = "📁"

// Facts is everything a profile needs to render one line.
type Facts struct {
	Input model.SessionInput
	Usage model.UsageSnapshot
	Git   *model.GitStatus
	Home  string // replaced by ~ in the claude layout; empty disables it
}

// ModelName returns the name to display: the payload's, else the one the
// transcript reported, else the profile default.
func (p Profile) ModelName(f Facts) string {
	switch {
	case f.Input.ModelName != "":
		return f.Input.ModelName
	case f.Usage.ReportedModel != "":
		return f.Usage.ReportedModel
	case p.DefaultModelName != "":
		return p.DefaultModelName
	}
	return "unknown"
}

// Context computes usage against the model's window. The limit is keyed by
// the payload's model id when present, otherwise by the display name.
func (p Profile) Context(f Facts) model.ContextUsage {
	key := f.Input.ModelID
	if key == "" {
		key = p.ModelName(f)
	}
	return model.NewContextUsage(f.Usage.TokensUsed, p.ContextLimit(key))
}

// Render builds the status line for the profile's layout.
func (p Profile) Render(f Facts) string {
	name := p.ModelName(f)
	cu := p.Context(f)
	color := p.Tiers.Color(cu.Percentage)

	var parts []string
	switch p.Layout {
	case LayoutGemini:
		parts = append(parts,
			p.ModelEmoji(name)+" "+name,
			DirIcon+" "+filepath.Base(f.Input.WorkingDir),
		)
		if f.Git != nil {
			parts = append(parts, f.Git.Display())
		}
		parts = append(parts, fmt.Sprintf("%s %.1f%% (%s/%s)",
			color, cu.Percentage, cli.FormatNumber(cu.Used), cli.FormatNumber(cu.Limit)))

	default:
		parts = append(parts, DirIcon+" "+shortenHome(f.Input.WorkingDir, f.Home))
		if f.Git != nil {
			parts = append(parts, f.Git.Display())
		}
		label := name
		if p.ShowModelEmoji {
			label = p.ModelEmoji(name) + " " + name
		}
		parts = append(parts, label+" "+p.contextString(cu, color))
	}

	return strings.Join(parts, Separator)
}

// contextString is compact at low usage and adds token counts once usage
// passes CompactUpTo.
func (p Profile) contextString(cu model.ContextUsage, color string) string {
	if cu.Percentage > p.CompactUpTo {
		return fmt.Sprintf("%s %.0f%% (%dk/%dk)", color, cu.Percentage, cu.Used/1000, cu.Limit/1000)
	}
	return fmt.Sprintf("%s %.0f%%", color, cu.Percentage)
}

func shortenHome(dir, home string) string {
	if home == "" || home == "/" {
		return dir
	}
	home = strings.TrimRight(home, string(filepath.Separator))
	if dir == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(dir, home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rest
	}
	return dir
}

// Envelope wraps a line in the systemMessage object hosts like Gemini CLI
// render, padded with a blank line on each side. An empty line produces "{}".
func Envelope(line string) ([]byte, error) {
	if line == "" {
		return encodeEnvelope(struct{}{})
	}
	return MessageEnvelope("\n" + line + "\n")
}

// MessageEnvelope wraps text verbatim in a systemMessage object.
func MessageEnvelope(text string) ([]byte, error) {
	return encodeEnvelope(struct {
		SystemMessage string `json:"systemMessage"`
	}{SystemMessage: text})
}

func encodeEnvelope(payload any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
