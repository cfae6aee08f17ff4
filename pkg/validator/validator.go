package validator

import (
	"context"
	"net/http"
	"strings"

	"imgvault/pkg/config"
	"imgvault/pkg/errors"
	"imgvault/pkg/logger"
)

// Verdict is the admit/reject decision for one candidate URL, based on
// remote metadata only. A rejected verdict carries the reason so callers
// and tests can tell "not an image" from "server unreachable".
type Verdict struct {
	OK          bool
	Reason      errors.Kind
	ContentType string
	Size        int64
}

// Validator decides candidate admissibility from a HEAD request.
type Validator struct {
	client    *http.Client
	userAgent string
	maxLength int64
	logger    logger.Logger
}

// New creates a Validator from the HTTP and ingest configuration.
// Redirects are followed (the default http.Client behavior).
func New(httpCfg config.HTTPConfig, maxLength int64, log logger.Logger) *Validator {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Validator{
		client:    &http.Client{Timeout: httpCfg.HeadTimeout},
		userAgent: httpCfg.UserAgent,
		maxLength: maxLength,
		logger:    log,
	}
}

// Check issues a HEAD request and admits the URL only when the declared
// content type contains "image" (case-insensitive) and the declared length
// does not exceed the ceiling. A missing Content-Length parses as 0, so
// responses without a declared length always pass the size check. Any
// transport failure yields a rejection with the fetch reason.
func (v *Validator) Check(ctx context.Context, url string) Verdict {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return Verdict{Reason: errors.KindFetch}
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.WithError(err).WithField("url", url).Debug("HEAD request failed")
		return Verdict{Reason: errors.KindFetch}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")

	// A missing Content-Length reports as -1; the contract treats it as 0,
	// so undeclared sizes always pass the ceiling check.
	size := resp.ContentLength
	if size < 0 {
		size = 0
	}

	verdict := Verdict{ContentType: contentType, Size: size}

	if !strings.Contains(strings.ToLower(contentType), "image") {
		verdict.Reason = errors.KindNotImage
		return verdict
	}
	if size > v.maxLength {
		verdict.Reason = errors.KindTooLarge
		return verdict
	}

	verdict.OK = true
	return verdict
}
