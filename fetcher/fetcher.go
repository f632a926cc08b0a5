// Package fetcher searches a video platform for a singer and downloads the audio of the results.
package fetcher

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/mashup-cli/mashup/internal/cache"
	"github.com/mashup-cli/mashup/key"
	"github.com/mashup-cli/mashup/log"
	"github.com/spf13/viper"
)

// Candidate is a single search hit.
type Candidate struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Duration float64 `json:"duration,omitempty"`
}

// Clip is a downloaded audio track waiting to be trimmed.
type Clip struct {
	SourceID string
	Title    string
	Path     string
	// Index is the acquisition order, starting at 0.
	Index int
}

// Searcher finds candidate videos for a query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]*Candidate, error)
}

// Downloader saves the audio of a candidate into dir and returns the file path.
type Downloader interface {
	Download(ctx context.Context, candidate *Candidate, dir string) (string, error)
}

// Fetcher turns a singer name into a sequence of downloaded clips.
type Fetcher struct {
	Searcher   Searcher
	Downloader Downloader
	Retry      RetryPolicy

	// Suffix is appended to the singer name in the search query.
	Suffix string
	// Factor and Floor size the search: max(n*Factor, Floor) results are requested.
	Factor int
	Floor  int
	// Minimum is the fewest clips accepted. Zero or values above n mean n.
	Minimum int
	// Cache enables the on-disk search cache.
	Cache bool
}

// New creates a fetcher configured from the global settings.
func New(searcher Searcher, downloader Downloader) *Fetcher {
	return &Fetcher{
		Searcher:   searcher,
		Downloader: downloader,
		Retry:      DefaultRetryPolicy(),
		Suffix:     viper.GetString(key.FetchSearchSuffix),
		Factor:     viper.GetInt(key.FetchSearchFactor),
		Floor:      viper.GetInt(key.FetchSearchFloor),
		Minimum:    viper.GetInt(key.FetchMinClips),
		Cache:      viper.GetBool(key.SearchCache),
	}
}

// Query builds the search query for singer.
func (f *Fetcher) Query(singer string) string {
	return strings.TrimSpace(singer + " " + f.Suffix)
}

// Limit returns the number of search results requested for n wanted clips.
func (f *Fetcher) Limit(n int) int {
	return max(n*max(f.Factor, 1), f.Floor, n)
}

func (f *Fetcher) minimum(n int) int {
	if f.Minimum <= 0 || f.Minimum > n {
		return n
	}
	return f.Minimum
}

// Fetch lazily searches and downloads up to n clips into dir.
//
// Clips are yielded in acquisition order. Failed items are logged and skipped.
// A *FetchError is yielded when the search fails or finds nothing, and after the
// last clip when fewer than the minimum could be downloaded. The sequence can be
// ranged over only once.
func (f *Fetcher) Fetch(ctx context.Context, singer string, n int, dir string) iter.Seq2[*Clip, error] {
	var consumed atomic.Bool

	return func(yield func(*Clip, error) bool) {
		if consumed.Swap(true) {
			yield(nil, ErrConsumed)
			return
		}

		candidates, err := f.search(ctx, singer, n)
		if err != nil {
			if ctx.Err() != nil {
				yield(nil, ctx.Err())
				return
			}
			yield(nil, &FetchError{Singer: singer, Requested: n, Err: err})
			return
		}

		var obtained int
		for _, candidate := range candidates {
			if obtained >= n {
				break
			}

			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			path, err := f.acquire(ctx, candidate, dir)
			if err != nil {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return
				}

				log.WithFields(map[string]any{
					"id":    candidate.ID,
					"title": candidate.Title,
				}).Warnf("skipping video: %s", err)
				continue
			}

			clip := &Clip{
				SourceID: candidate.ID,
				Title:    candidate.Title,
				Path:     path,
				Index:    obtained,
			}
			obtained++

			if !yield(clip, nil) {
				return
			}
		}

		if obtained < f.minimum(n) {
			yield(nil, &FetchError{Singer: singer, Obtained: obtained, Requested: n})
		}
	}
}

func (f *Fetcher) search(ctx context.Context, singer string, n int) ([]*Candidate, error) {
	query, limit := f.Query(singer), f.Limit(n)
	cacheKey := cache.GenerateKey(query, limit)

	if f.Cache {
		var cached []*Candidate
		if cache.Read(cacheKey, &cached) && len(cached) > 0 {
			log.Infof("using cached search results for %q", query)
			return cached, nil
		}
	}

	log.Infof("searching %d results for %q", limit, query)
	candidates, err := f.Searcher.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if len(candidates) == 0 {
		return nil, ErrNoResults
	}

	if f.Cache {
		if err := cache.Write(cacheKey, candidates); err != nil {
			log.Warnf("caching search results: %s", err)
		}
	}

	return candidates, nil
}

func (f *Fetcher) acquire(ctx context.Context, candidate *Candidate, dir string) (string, error) {
	var path string
	err := f.Retry.Do(ctx, func(attempt int) error {
		if attempt > 1 {
			log.Infof("retrying %s, attempt %d", candidate.ID, attempt)
		}

		downloaded, err := f.Downloader.Download(ctx, candidate, dir)
		if err != nil {
			return err
		}

		path = downloaded
		return f.Retry.WaitStable(ctx, path)
	})

	return path, err
}
