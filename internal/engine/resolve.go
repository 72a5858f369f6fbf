package engine

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

var (
	videoURLRE = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	videoIDRE  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// NormalizeVideoID reduces a raw id or YouTube URL to a bare id. Returns "" if invalid.
func NormalizeVideoID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if m := videoURLRE.FindStringSubmatch(raw); len(m) >= 2 {
		return m[1]
	}
	if !videoIDRE.MatchString(raw) {
		return ""
	}
	return raw
}

// DedupHits returns unique ids in first-seen order, skipping empty or invalid ones.
func DedupHits(hits []SearchHit) []string {
	seen := make(map[string]bool, len(hits))
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		id := NormalizeVideoID(h.VideoID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Chunk splits ids into consecutive slices of at most size.
func Chunk(ids []string, size int) [][]string {
	size = clampPositive(size, MaxDetailChunk)
	var chunks [][]string
	for i := 0; i < len(ids); i += size {
		chunks = append(chunks, ids[i:min(i+size, len(ids))])
	}
	return chunks
}

// ResolveOptions controls a detail resolution pass.
type ResolveOptions struct {
	ChunkSize  int
	StartIndex int // first credential index to try
	OnProgress ProgressFunc
}

// ResolveResult holds the resolved records in first-seen id order.
type ResolveResult struct {
	Records        []DetailRecord
	Chunks         int
	FailedChunks   int
	Canceled       bool
	LastCredential int
}

// ResolveDetails fetches detail records for ids in chunks. A failed chunk is retried
// exactly once with the next credential; if that fails too the chunk yields nothing
// and resolution continues with the remaining chunks.
func ResolveDetails(ctx context.Context, dp DetailProvider, creds CredentialSource, ids []string, opts ResolveOptions) ResolveResult {
	res := ResolveResult{LastCredential: -1}
	chunks := Chunk(ids, opts.ChunkSize)
	res.Chunks = len(chunks)
	if len(chunks) == 0 {
		return res
	}

	cred, err := creds.Next(opts.StartIndex - 1)
	if err != nil {
		slog.Warn("details: no credential available", slog.Int("chunks", len(chunks)))
		res.FailedChunks = len(chunks)
		return res
	}

	byID := make(map[string]DetailRecord, len(ids))
	for i, chunk := range chunks {
		if ctx.Err() != nil {
			res.Canceled = true
			break
		}
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Stage: "details", Chunk: i + 1, ChunkTotal: len(chunks)})
		}

		metrics.DetailChunks.Add(1)
		recs, err := dp.FetchDetails(ctx, cred, chunk)
		if err != nil {
			recs, err = retryChunk(ctx, dp, creds, &cred, chunk, err)
		}
		if err != nil {
			if ctx.Err() != nil {
				res.Canceled = true
				break
			}
			metrics.DetailChunkFailures.Add(1)
			res.FailedChunks++
			slog.Warn("details: chunk failed after retry",
				slog.Int("chunk", i+1),
				slog.Int("ids", len(chunk)),
				slog.Any("error", err))
			continue
		}
		res.LastCredential = cred.Index
		for _, r := range recs {
			byID[r.ID] = r
		}
	}

	for _, id := range ids {
		if r, ok := byID[id]; ok {
			res.Records = append(res.Records, r)
		}
	}
	return res
}

// retryChunk makes the single retry for a failed chunk using the next credential.
func retryChunk(ctx context.Context, dp DetailProvider, creds CredentialSource, cred *Credential, chunk []string, cause error) ([]DetailRecord, error) {
	if IsQuotaError(cause) {
		metrics.QuotaErrors.Add(1)
		creds.MarkExhausted(cred.Index)
	}
	next, err := creds.Next(cred.Index)
	if err != nil {
		return nil, cause
	}
	metrics.DetailChunkRetries.Add(1)
	slog.Debug("details: retrying chunk",
		slog.Int("from", cred.Index),
		slog.Int("to", next.Index),
		slog.Any("cause", cause))
	*cred = next
	return dp.FetchDetails(ctx, next, chunk)
}
