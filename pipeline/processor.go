// Package pipeline turns extraction results into render-ready sections.
//
// Processing is memoized per document and settings: splitting a long book is
// CPU-bound work that must not repeat on every navigation, and concurrent
// requests for the same document must not duplicate it. The cache follows a
// single-flight discipline - at most one in-flight computation per key, with
// concurrent requesters awaiting the same pending result. The flight is
// detached from its initiator: a caller that cancels abandons only its own
// wait, and the shared result is committed to the cache once complete.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/readlite/readlite/bionic"
	"github.com/readlite/readlite/layout"
	"github.com/readlite/readlite/model"
	"github.com/readlite/readlite/sections"
)

// DefaultBatchSize is how many sections are formatted between yield points,
// keeping long splits from monopolizing a cooperative scheduler.
const DefaultBatchSize = 5

// Request describes one processing job.
type Request struct {
	// DocumentID identifies the source document for cache keying.
	DocumentID string

	// Result is the immutable extraction result for the document.
	Result *model.ExtractionResult

	// ViewportWidth and ViewportHeight are the target screen dimensions
	// in pixels.
	ViewportWidth  float64
	ViewportHeight float64

	// FontSize is the reading font size in points.
	FontSize float64

	// Bionic enables word-emphasis markup.
	Bionic bool
}

// Output is the committed result of one processing job.
type Output struct {
	// Sections are the render-ready sections in reading order. Empty in
	// page mode.
	Sections []model.ProcessedSection

	// IsPageMode is set when extraction failed and the UI must fall back
	// to displaying the document's original pages.
	IsPageMode bool

	// Capacity is the screen capacity the sections were split against.
	Capacity model.Capacity
}

// Processor computes and caches processed sections.
type Processor struct {
	log       *zap.Logger
	batchSize int

	group singleflight.Group

	mu    sync.Mutex
	cache map[string]*Output
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger attaches a logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Processor) { p.log = log }
}

// WithBatchSize overrides the yield interval.
func WithBatchSize(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		log:       zap.NewNop(),
		batchSize: DefaultBatchSize,
		cache:     make(map[string]*Output),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process returns the processed sections for a request, computing them on
// the first call and serving the cached result afterwards. Concurrent calls
// with the same key share one computation. Cancellation abandons only the
// canceling caller's wait; the shared computation keeps running for any
// other waiters and its result is still committed to the cache.
func (p *Processor) Process(ctx context.Context, req Request) (*Output, error) {
	if req.Result == nil {
		return nil, fmt.Errorf("pipeline: request has no extraction result")
	}

	key := cacheKey(req)

	p.mu.Lock()
	if out, ok := p.cache[key]; ok {
		p.mu.Unlock()
		return out, nil
	}
	p.mu.Unlock()

	ch := p.group.DoChan(key, func() (interface{}, error) {
		// The flight is shared by every waiter on this key, so it must
		// not run under any single caller's context. A caller that
		// cancels abandons its wait below; the computation carries on
		// for the others.
		out, err := p.compute(context.WithoutCancel(ctx), req)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.cache[key] = out
		p.mu.Unlock()
		return out, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Output), nil
	}
}

// Invalidate drops all cached results for a document, across every font
// size and bionic combination.
func (p *Processor) Invalidate(documentID string) {
	prefix := documentID + "|"
	p.mu.Lock()
	for k := range p.cache {
		if strings.HasPrefix(k, prefix) {
			delete(p.cache, k)
		}
	}
	p.mu.Unlock()
}

func (p *Processor) compute(ctx context.Context, req Request) (*Output, error) {
	if req.Result.ExtractionFailed {
		p.log.Info("document in page mode",
			zap.String("document", req.DocumentID))
		return &Output{IsPageMode: true}, nil
	}

	capacity := layout.Estimate(req.ViewportWidth, req.ViewportHeight, req.FontSize)
	secs := sections.Split(req.Result.Text, capacity)

	processed := make([]model.ProcessedSection, 0, len(secs))
	for i, s := range secs {
		if i > 0 && i%p.batchSize == 0 {
			if err := ctx.Err(); err != nil {
				p.log.Debug("processing abandoned",
					zap.String("document", req.DocumentID),
					zap.Int("completed", i))
				return nil, err
			}
			// Yield so a cooperative host stays responsive.
			runtime.Gosched()
		}
		processed = append(processed, formatSection(s, req.Bionic))
	}

	p.log.Info("document processed",
		zap.String("document", req.DocumentID),
		zap.Int("sections", len(processed)),
		zap.Float64("fontSize", req.FontSize),
		zap.Bool("bionic", req.Bionic))

	return &Output{Sections: processed, Capacity: capacity}, nil
}

// formatSection derives the render markup for one section.
func formatSection(s model.Section, useBionic bool) model.ProcessedSection {
	regular := wrapParagraphs(s.Content)
	processed := regular
	if useBionic {
		processed = wrapParagraphs(bionic.Emphasize(s.Content))
	}
	return model.ProcessedSection{
		Section:          s,
		Processed:        processed,
		RegularFormatted: regular,
		IsBionic:         useBionic,
	}
}

// wrapParagraphs wraps each paragraph of a section in a container tag.
func wrapParagraphs(content string) string {
	var sb strings.Builder
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(para)
		sb.WriteString("</p>")
	}
	return sb.String()
}

func cacheKey(req Request) string {
	return fmt.Sprintf("%s|%g|%t", req.DocumentID, req.FontSize, req.Bionic)
}
