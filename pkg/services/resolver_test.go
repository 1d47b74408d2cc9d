package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/kerbaras/anistream/pkg/data"
	"github.com/stretchr/testify/assert"
)

func stream(url, q string) data.Stream {
	return data.Stream{URL: url, Quality: q, Format: data.ContainerProgressive}
}

func TestResolverPreservesSourceOrder(t *testing.T) {
	delays := map[string]time.Duration{"a": 60 * time.Millisecond, "b": 0, "c": 30 * time.Millisecond}
	extractor := &mockExtractor{
		extractFunc: func(src data.EncryptedSource) []data.Stream {
			time.Sleep(delays[src.Name])
			return []data.Stream{stream(src.Name+"1", "1080p"), stream(src.Name+"2", "720p")}
		},
	}

	resolver := NewResolver(extractor, 3, 0)
	streams := resolver.Resolve([]data.EncryptedSource{{Name: "a"}, {Name: "b"}, {Name: "c"}})

	var urls []string
	for _, s := range streams {
		urls = append(urls, s.URL)
	}
	assert.Equal(t, []string{"a1", "a2", "b1", "b2", "c1", "c2"}, urls)
}

func TestResolverFaultIsolation(t *testing.T) {
	extractor := &mockExtractor{
		extractFunc: func(src data.EncryptedSource) []data.Stream {
			switch src.Name {
			case "broken":
				return nil
			case "panics":
				panic("provider exploded")
			}
			return []data.Stream{stream(src.Name, "720p")}
		},
	}

	resolver := NewResolver(extractor, 2, 0)

	t.Run("failed source contributes nothing", func(t *testing.T) {
		streams := resolver.Resolve([]data.EncryptedSource{{Name: "first"}, {Name: "broken"}, {Name: "third"}})
		assert.Equal(t, []data.Stream{stream("first", "720p"), stream("third", "720p")}, streams)
	})

	t.Run("panicking source contributes nothing", func(t *testing.T) {
		streams := resolver.Resolve([]data.EncryptedSource{{Name: "first"}, {Name: "panics"}, {Name: "third"}})
		assert.Equal(t, []data.Stream{stream("first", "720p"), stream("third", "720p")}, streams)
	})
}

func TestResolverConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	extractor := &mockExtractor{
		extractFunc: func(src data.EncryptedSource) []data.Stream {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
			return nil
		},
	}

	srcs := make([]data.EncryptedSource, 8)
	NewResolver(extractor, 2, 0).Resolve(srcs)

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, int32(0), inFlight.Load())
}

func TestResolverEmpty(t *testing.T) {
	resolver := NewResolver(&mockExtractor{}, 0, 0)
	assert.Empty(t, resolver.Resolve(nil))
}

func TestResolverRateLimit(t *testing.T) {
	extractor := &mockExtractor{
		extractFunc: func(src data.EncryptedSource) []data.Stream { return nil },
	}

	start := time.Now()
	NewResolver(extractor, 4, 20).Resolve(make([]data.EncryptedSource, 3))

	// burst of one: the second and third fetch wait 50ms each
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestResolverProgress(t *testing.T) {
	extractor := &mockExtractor{
		extractFunc: func(src data.EncryptedSource) []data.Stream {
			return []data.Stream{stream(src.Name, "720p")}
		},
	}

	resolver := NewResolver(extractor, 1, 0)
	resolver.Resolve([]data.EncryptedSource{{Name: "only"}})

	progress := resolver.GetProgressChannel()
	first := <-progress
	assert.Equal(t, "resolving", first.Status)
	assert.Equal(t, "only", first.Source)

	second := <-progress
	assert.Equal(t, "complete", second.Status)
	assert.Equal(t, 1, second.Streams)
	assert.Equal(t, 1, second.Total)
}
