package ingest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"

	// Register decoders for the formats the verify step accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"imgvault/pkg/config"
	"imgvault/pkg/errors"
	"imgvault/pkg/logger"
	"imgvault/pkg/page"
	"imgvault/pkg/ratelimit"
	"imgvault/pkg/storage"
	"imgvault/pkg/validator"
)

// Summary reports the outcome of one ingestion run. Per-candidate failures
// are tallied by kind instead of being surfaced as errors.
type Summary struct {
	PageURL  string
	Found    int
	Accepted int
	Dupes    int
	Skipped  map[errors.Kind]int
}

// String renders the human-readable count summary.
func (s Summary) String() string {
	return fmt.Sprintf("Ingested %d validated images.", s.Accepted)
}

// Ingestor downloads admissible images referenced by a web page into the
// content-addressed store.
type Ingestor struct {
	fetcher   *page.Fetcher
	validator *validator.Validator
	store     *storage.Store
	limiter   ratelimit.Limiter
	client    *http.Client
	userAgent string
	maxLength int64
	logger    logger.Logger
}

// New assembles an Ingestor from its collaborators.
func New(cfg *config.Config, store *storage.Store, log logger.Logger) *Ingestor {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Ingestor{
		fetcher:   page.NewFetcher(cfg.HTTP, log),
		validator: validator.New(cfg.HTTP, cfg.Ingest.MaxContentLength, log),
		store:     store,
		limiter:   ratelimit.ForRequestsPerMinute(cfg.Ingest.RequestsPerMinute),
		client:    &http.Client{Timeout: cfg.HTTP.FetchTimeout},
		userAgent: cfg.HTTP.UserAgent,
		maxLength: cfg.Ingest.MaxContentLength,
		logger:    log,
	}
}

// Clone fetches the page, extracts img candidates in document order, and
// ingests the first `limit` that validate and decode. A page fetch or
// parse failure aborts the run; every per-candidate failure is skipped
// and tallied. Candidates are processed sequentially: the contract keeps
// the first `limit` admissible images in document order, which a
// concurrent pool would not preserve.
func (ing *Ingestor) Clone(ctx context.Context, pageURL string, limit int) (Summary, error) {
	summary := Summary{
		PageURL: pageURL,
		Skipped: make(map[errors.Kind]int),
	}

	ing.limiter.Wait()
	body, err := ing.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch page: %w", err)
	}

	candidates, err := page.ExtractImages(bytes.NewReader(body), pageURL)
	if err != nil {
		return summary, fmt.Errorf("failed to parse page: %w", err)
	}
	summary.Found = len(candidates)

	ing.logger.WithFields(map[string]interface{}{
		"url":        pageURL,
		"candidates": len(candidates),
		"limit":      limit,
	}).Info("starting ingestion run")

	for _, candidate := range candidates {
		if summary.Accepted >= limit {
			break
		}

		if err := ctx.Err(); err != nil {
			return summary, err
		}

		kind, dup := ing.ingestOne(ctx, candidate)
		switch {
		case kind != "":
			summary.Skipped[kind]++
			ing.logger.WithFields(map[string]interface{}{
				"url":    candidate,
				"reason": string(kind),
			}).Debug("candidate skipped")
		default:
			summary.Accepted++
			if dup {
				summary.Dupes++
			}
		}
	}

	ing.logger.WithFields(map[string]interface{}{
		"url":      pageURL,
		"accepted": summary.Accepted,
		"found":    summary.Found,
	}).Info("ingestion run complete")

	return summary, nil
}

// ingestOne runs one candidate through validate, fetch, decode-verify and
// persist. It returns the skip reason, or "" with the duplicate flag on
// success. A storage failure is reported as a skip too: the run carries on,
// matching the skip-and-continue contract.
func (ing *Ingestor) ingestOne(ctx context.Context, candidate string) (errors.Kind, bool) {
	ing.limiter.Wait()
	verdict := ing.validator.Check(ctx, candidate)
	if !verdict.OK {
		return verdict.Reason, false
	}

	ing.limiter.Wait()
	data, kind := ing.fetchBody(ctx, candidate)
	if kind != "" {
		return kind, false
	}

	// Verify the payload decodes as a structurally valid image. The decoded
	// pixels are discarded; only the original bytes are persisted.
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return errors.KindDecode, false
	}

	_, dup, err := ing.store.Save(data)
	if err != nil {
		ing.logger.WithError(err).WithField("url", candidate).Error("failed to persist image")
		return errors.KindStorage, false
	}

	return "", dup
}

// fetchBody downloads a candidate's bytes with the short per-item timeout.
// The length ceiling is enforced again on the actual body, since HEAD
// responses can lie. Failures come back as a skip kind.
func (ing *Ingestor) fetchBody(ctx context.Context, url string) ([]byte, errors.Kind) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.KindFetch
	}
	req.Header.Set("User-Agent", ing.userAgent)

	resp, err := ing.client.Do(req)
	if err != nil {
		return nil, errors.KindFetch
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.KindFetch
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, ing.maxLength+1))
	if err != nil {
		return nil, errors.KindFetch
	}
	if int64(len(data)) > ing.maxLength {
		return nil, errors.KindTooLarge
	}

	return data, ""
}
