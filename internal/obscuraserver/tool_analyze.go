package obscuraserver

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_obscura/internal/engine"
	"github.com/anatolykoptev/go_obscura/internal/engine/patterns"
	"github.com/anatolykoptev/go_obscura/internal/toolutil"
)

var analyses = []string{
	AnalysisBursts, AnalysisDead, AnalysisFingerprints, AnalysisScripts,
	AnalysisAnomalies, AnalysisLocations, AnalysisDuplicates,
}

func registerAnalyze(server *mcp.Server, h *handlers) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "obscura_analyze",
		Description: "Analyze every video collected by obscura_scan in this session: same-day upload bursts (camera dumps, bots, screen recordings), dead channels, channel automation fingerprints, mixed-script titles, metadata anomalies, remote geotags and duplicate titles.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
		out, err := h.analyze(input)
		if err != nil {
			return nil, AnalyzeOutput{}, err
		}
		return nil, out, nil
	})
}

func (h *handlers) analyze(in AnalyzeInput) (AnalyzeOutput, error) {
	for _, a := range in.Analyses {
		if !slices.Contains(analyses, strings.ToLower(strings.TrimSpace(a))) {
			return AnalyzeOutput{}, fmt.Errorf("unknown analysis %q (want one of %s)", a, strings.Join(analyses, ", "))
		}
	}

	videos := engine.ApplyFilters(h.Session.Videos(), in.Filter)
	out := AnalyzeOutput{Videos: len(videos)}
	want := func(name string) bool { return toolutil.Wants(in.Analyses, name) }

	if want(AnalysisBursts) {
		out.Bursts = patterns.DetectBursts(videos, in.BurstThreshold)
	}
	if want(AnalysisDead) {
		out.DeadChannels = patterns.FindDeadChannels(videos, in.DeadMaxVideos, in.DeadMinAgeDays)
	}
	if want(AnalysisFingerprints) {
		out.Fingerprints = patterns.FingerprintChannels(videos)
	}
	if want(AnalysisScripts) {
		out.ScriptMismatches = patterns.FindScriptMismatches(videos)
	}
	if want(AnalysisAnomalies) {
		out.Anomalies = patterns.FindAnomalies(videos)
	}
	if want(AnalysisLocations) {
		out.LocationAnomalies = patterns.DetectLocationAnomalies(videos)
	}
	if want(AnalysisDuplicates) {
		out.Duplicates = patterns.FindDuplicateTitles(videos)
	}

	if in.Top > 0 {
		ranked := engine.RankByScore(videos)
		for i := 0; i < len(ranked) && i < in.Top; i++ {
			out.TopVideos = append(out.TopVideos, engine.Brief(ranked[i], briefDescription))
		}
	}
	return out, nil
}
