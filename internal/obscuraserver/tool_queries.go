package obscuraserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_obscura/internal/engine/queries"
)

func registerQueries(server *mcp.Server, h *handlers) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "obscura_queries",
		Description: "Preview the search queries a scan would run, without searching. Supports keywords, filename patterns, boosters and the random strategies (chaos, deep, rabbithole, timecapsule, llm). Set list_patterns to get the filename pattern catalog and deep topics.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input QueriesInput) (*mcp.CallToolResult, QueriesOutput, error) {
		out, err := h.previewQueries(ctx, input)
		if err != nil {
			return nil, QueriesOutput{}, err
		}
		return nil, out, nil
	})
}

func (h *handlers) previewQueries(ctx context.Context, in QueriesInput) (QueriesOutput, error) {
	qs, win, err := h.buildQueries(ctx, in.QueryInput)
	if err != nil {
		return QueriesOutput{}, err
	}
	out := QueriesOutput{Queries: qs}
	if win != nil {
		out.PublishedAfter, out.PublishedBefore = &win.after, &win.before
	}
	if in.ListPatterns {
		out.Patterns = queries.FilenamePatterns
		for _, c := range queries.DeepCategories {
			out.DeepTopics = append(out.DeepTopics, c.Name)
		}
	}
	return out, nil
}
