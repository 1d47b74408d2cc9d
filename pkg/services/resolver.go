package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kerbaras/anistream/pkg/data"
	"github.com/kerbaras/anistream/pkg/metrics"
	"golang.org/x/time/rate"
)

// ResolveProgress reports the state of one source during a resolution.
type ResolveProgress struct {
	Index   int
	Total   int
	Source  string
	Status  string // "resolving", "complete", "error"
	Streams int
	Error   error
}

// Extractor turns one source into streams. It must not return an error;
// failures are an empty result.
type Extractor interface {
	Extract(src data.EncryptedSource) []data.Stream
}

// Resolver extracts all sources of an episode concurrently.
type Resolver struct {
	extractor    Extractor
	concurrency  int
	limiter      *rate.Limiter
	progressChan chan ResolveProgress
}

// NewResolver creates a Resolver running at most concurrency extractions at
// once. rps > 0 limits how many provider fetches start per second.
func NewResolver(extractor Extractor, concurrency int, rps float64) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &Resolver{
		extractor:    extractor,
		concurrency:  concurrency,
		limiter:      limiter,
		progressChan: make(chan ResolveProgress, 100),
	}
}

// GetProgressChannel returns the channel for receiving per-source progress.
func (r *Resolver) GetProgressChannel() <-chan ResolveProgress {
	return r.progressChan
}

// Resolve extracts every source and concatenates the streams in source
// order, regardless of which extraction finished first. A failing source
// contributes nothing.
func (r *Resolver) Resolve(sources []data.EncryptedSource) []data.Stream {
	defer metrics.ObserveResolve(time.Now())

	results := make([][]data.Stream, len(sources))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, r.concurrency)

	for i, src := range sources {
		wg.Add(1)
		go func(i int, src data.EncryptedSource) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[i] = r.extract(i, len(sources), src)
		}(i, src)
	}

	wg.Wait()

	var streams []data.Stream
	for _, res := range results {
		streams = append(streams, res...)
	}
	return streams
}

func (r *Resolver) extract(i, total int, src data.EncryptedSource) (streams []data.Stream) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("extract %s: panic: %v", src.Name, rec)
			slog.Debug("source extraction panicked", slog.Int("index", i), slog.Any("error", err))
			streams = nil
			r.sendProgress(ResolveProgress{Index: i, Total: total, Source: src.Name, Status: "error", Error: err})
		}
	}()

	if r.limiter != nil {
		r.limiter.Wait(context.Background())
	}

	r.sendProgress(ResolveProgress{Index: i, Total: total, Source: src.Name, Status: "resolving"})

	streams = r.extractor.Extract(src)

	r.sendProgress(ResolveProgress{
		Index:   i,
		Total:   total,
		Source:  src.Name,
		Status:  "complete",
		Streams: len(streams),
	})
	return streams
}

// sendProgress sends a progress update (non-blocking)
func (r *Resolver) sendProgress(progress ResolveProgress) {
	select {
	case r.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}
