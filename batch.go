package gofugue

import (
	"context"

	"github.com/GeoffreyPlitt/debuggo"
	"golang.org/x/sync/errgroup"
)

var batchDebug = debuggo.Debug("gofugue:batch")

// BatchRequest pairs an EpisodeRequest with the slot it should land in.
type BatchRequest struct {
	Index   int
	Request EpisodeRequest
}

// GenerateEpisodesConcurrently runs independent EpisodeRequests in parallel
// and stores each result at its BatchRequest's Index, not in completion
// order; every Index must lie in [0, len(requests)). Requests must be
// independent: none may reference another's EntryState, since each episode
// mutates its own constraint state. Requests share state only through the
// read-only DefaultOracleTables singleton.
func GenerateEpisodesConcurrently(ctx context.Context, requests []BatchRequest) ([]EpisodeResult, error) {
	results := make([]EpisodeResult, len(requests))
	g, _ := errgroup.WithContext(ctx)
	for _, br := range requests {
		br := br
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[br.Index] = GenerateEpisode(br.Request)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		batchDebug("batch generation aborted: %v", err)
		return nil, err
	}
	batchDebug("generated %d episodes concurrently", len(requests))
	return results, nil
}
