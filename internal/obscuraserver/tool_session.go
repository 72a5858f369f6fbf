package obscuraserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

func registerSession(server *mcp.Server, h *handlers) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "obscura_session",
		Description: "Inspect or clear the session collection. action=stats returns the video count with engine and cache counters; action=reset empties the collection.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SessionInput) (*mcp.CallToolResult, SessionOutput, error) {
		out, err := h.session(input)
		if err != nil {
			return nil, SessionOutput{}, err
		}
		return nil, out, nil
	})
}

func (h *handlers) session(in SessionInput) (SessionOutput, error) {
	var cleared int
	switch strings.ToLower(strings.TrimSpace(in.Action)) {
	case "", "stats":
	case "reset":
		cleared = h.Session.Len()
		h.Session.Reset()
	default:
		return SessionOutput{}, fmt.Errorf("unknown action %q (want stats or reset)", in.Action)
	}
	hits, misses := engine.CacheStats()
	return SessionOutput{
		Videos:      h.Session.Len(),
		Cleared:     cleared,
		Metrics:     engine.GetMetrics(),
		CacheHits:   hits,
		CacheMisses: misses,
	}, nil
}
