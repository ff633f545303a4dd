package ingestion

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/campusconnect/campusai-go/internal/knowledge"
	"github.com/campusconnect/campusai-go/internal/logging"
)

// Config holds the configuration for the ingestion pipeline.
type Config struct {
	// MaxAttempts is how many times a page's extraction is attempted before
	// the page is skipped. Defaults to 3 if zero.
	MaxAttempts int

	// BackoffBase is the first retry delay. Each subsequent attempt doubles
	// it. Defaults to 10s if zero.
	BackoffBase time.Duration

	// RequestInterval is the fixed pause between page fetches, keeping the
	// crawl polite and under provider rate limits. Defaults to 2s if zero.
	RequestInterval time.Duration

	// BatchSize is how many pages are processed between knowledge store
	// saves, so a crash mid-crawl loses at most one batch. Defaults to 5
	// if zero.
	BatchSize int

	// Force re-ingests pages whose source URL is already present in the
	// knowledge store instead of skipping them.
	Force bool
}

// Stats summarizes a pipeline run.
type Stats struct {
	// Fetched is the number of pages successfully fetched and extracted.
	Fetched int
	// Skipped is the number of pages skipped because their source URL was
	// already in the knowledge store.
	Skipped int
	// Failed is the number of pages that could not be fetched or extracted.
	Failed int
	// Added is the number of new FAQ records merged into the store.
	Added int
}

// FAQExtractor turns page text into FAQ pairs. Satisfied by *Extractor.
type FAQExtractor interface {
	Extract(ctx context.Context, pageText string) ([]QA, error)
}

// Pipeline orchestrates the fetch, extract, classify, merge flow for a set
// of university page URLs.
type Pipeline struct {
	// fetcher retrieves cleaned page text.
	fetcher Fetcher

	// extractor turns page text into FAQ pairs.
	extractor FAQExtractor

	// store is the FAQ knowledge store that receives merged records.
	store *knowledge.Store

	// limiter spaces out page fetches at a fixed interval.
	limiter *rate.Limiter

	// cfg holds the resolved pipeline configuration.
	cfg *Config
}

// NewPipeline constructs a Pipeline from the provided dependencies and config.
func NewPipeline(fetcher Fetcher, extractor FAQExtractor, store *knowledge.Store, cfg *Config) (*Pipeline, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("ingestion: fetcher must not be nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("ingestion: extractor must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("ingestion: knowledge store must not be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 10 * time.Second
	}
	if cfg.RequestInterval <= 0 {
		cfg.RequestInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}

	return &Pipeline{
		fetcher:   fetcher,
		extractor: extractor,
		store:     store,
		limiter:   rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
		cfg:       cfg,
	}, nil
}

// Run processes the given URLs sequentially. Pages whose URL is already
// recorded as a source in the knowledge store are skipped unless Force is
// set. Per-page failures are logged and counted, not fatal; the run only
// aborts when the context is cancelled or a store save fails.
func (p *Pipeline) Run(ctx context.Context, urls []string, progress func(msg string)) (Stats, error) {
	if progress == nil {
		progress = func(string) {}
	}
	log := logging.FromContext(ctx)

	var stats Stats
	records := p.store.List()
	sources := p.store.Sources()
	sinceSave := 0

	for _, url := range urls {
		if !p.cfg.Force && sources[url] {
			stats.Skipped++
			progress(fmt.Sprintf("skipping %s (already ingested)", url))
			continue
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return stats, fmt.Errorf("ingestion: %w", err)
		}

		progress(fmt.Sprintf("fetching %s", url))
		pageText, err := p.fetcher.Fetch(ctx, url)
		if err != nil {
			stats.Failed++
			log.Warn("page fetch failed, skipping",
				"url", url,
				"error", err,
			)
			continue
		}

		pairs, err := p.extractWithRetry(ctx, pageText)
		if err != nil {
			if ctx.Err() != nil {
				return stats, fmt.Errorf("ingestion: %w", ctx.Err())
			}
			stats.Failed++
			log.Warn("faq extraction failed, skipping",
				"url", url,
				"error", err,
			)
			continue
		}

		candidates := make([]knowledge.Record, 0, len(pairs))
		for _, qa := range pairs {
			candidates = append(candidates, knowledge.Record{
				Question: qa.Question,
				Answer:   qa.Answer,
				Category: knowledge.Classify(qa.Question, qa.Answer),
			})
		}

		var added int
		records, added = knowledge.Merge(records, candidates, url)
		stats.Fetched++
		stats.Added += added
		sinceSave++
		progress(fmt.Sprintf("extracted %d pairs from %s (%d new)", len(pairs), url, added))

		if sinceSave >= p.cfg.BatchSize {
			if err := p.store.Replace(records); err != nil {
				return stats, fmt.Errorf("ingestion: saving batch: %w", err)
			}
			sinceSave = 0
			progress(fmt.Sprintf("saved knowledge base (%d records)", len(records)))
		}
	}

	if sinceSave > 0 || stats.Added > 0 {
		if err := p.store.Replace(records); err != nil {
			return stats, fmt.Errorf("ingestion: saving knowledge base: %w", err)
		}
	}

	log.Info("ingestion run complete",
		"fetched", stats.Fetched,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"added", stats.Added,
	)
	return stats, nil
}

// extractWithRetry attempts extraction up to MaxAttempts times, doubling the
// wait between attempts. Only retryable failures (rate limits, malformed
// model output) are retried.
func (p *Pipeline) extractWithRetry(ctx context.Context, pageText string) ([]QA, error) {
	log := logging.FromContext(ctx)

	var lastErr error
	delay := p.cfg.BackoffBase
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		pairs, err := p.extractor.Extract(ctx, pageText)
		if err == nil {
			return pairs, nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == p.cfg.MaxAttempts {
			break
		}

		log.Warn("extraction attempt failed, backing off",
			"attempt", attempt,
			"wait", delay.String(),
			"error", err,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, lastErr
}
