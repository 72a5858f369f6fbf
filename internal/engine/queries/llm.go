package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go-kit/llm"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

// Completer sends one prompt and returns the model's raw reply.
type Completer func(ctx context.Context, prompt string) (string, error)

// ClientCompleter adapts an llm.Client to a Completer.
func ClientCompleter(c *llm.Client, temperature float64, maxTokens int) Completer {
	return func(ctx context.Context, prompt string) (string, error) {
		engine.IncrLLMCalls()
		out, err := c.Complete(ctx, "", prompt,
			llm.WithChatTemperature(temperature),
			llm.WithChatMaxTokens(maxTokens),
		)
		if err != nil {
			engine.IncrLLMErrors()
		}
		return out, err
	}
}

const expandThemePrompt = `You help find obscure, forgotten, near-zero-view videos.
Write %d short video search queries (2 to 5 words each) for the theme below.
Favor default camera filenames, mundane home-video phrasing, old years and
non-English wording over popular topics.
Theme: %s
Reply with a JSON array of %d strings and nothing else.`

// DefaultTheme is used when the llm strategy gets no theme.
const DefaultTheme = "forgotten home videos nobody watched"

// LLMStrategy asks a language model to expand a theme into queries.
type LLMStrategy struct {
	Complete Completer
	Theme    string
}

func (s *LLMStrategy) Queries(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	theme := strings.TrimSpace(s.Theme)
	if theme == "" {
		theme = DefaultTheme
	}
	raw, err := s.Complete(ctx, fmt.Sprintf(expandThemePrompt, n, theme, n))
	if err != nil {
		return nil, fmt.Errorf("llm expand: %w", err)
	}
	raw = stripFences(raw)
	var qs []string
	if err := json.Unmarshal([]byte(raw), &qs); err != nil {
		return nil, fmt.Errorf("llm expand: parse failed on %q: %w", raw, err)
	}
	qs = Dedup(qs)
	return qs[:min(n, len(qs))], nil
}

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
