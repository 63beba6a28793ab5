// Package audit fetches feed URLs one at a time and records a verdict for
// each, producing audit snapshots.
package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kstenson/paperboy/classify"
	"github.com/kstenson/paperboy/model"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxBodySize = 10 << 20
)

// ResultFunc is called after each feed has been checked. index is 1-based.
type ResultFunc func(index, total int, result model.AuditResult)

// Config configures an Auditor. Zero Timeout, UserAgent and MaxBodySize fall
// back to the defaults above.
type Config struct {
	Timeout     time.Duration
	// Delay is the pause between the end of one request and the start of
	// the next. Zero disables it.
	Delay       time.Duration
	UserAgent   string
	MaxBodySize int64
	// BlockPrivateIPs rejects feed URLs on loopback and private networks.
	BlockPrivateIPs bool
	// Tier is the feed-element test used by Run. Recheck always uses Broadened.
	Tier classify.Tier

	// HTTPClient overrides the client built from the fields above.
	HTTPClient *http.Client
	Logger     *model.DebugLogger
	Now        func() time.Time
	OnResult   ResultFunc
}

// Auditor checks feeds strictly sequentially. It is not safe for
// concurrent use.
type Auditor struct {
	cfg    Config
	client *http.Client
	logger *model.DebugLogger

	// lastFetch is when the previous request finished, for the delay.
	lastFetch time.Time
}

// New validates cfg and builds an Auditor.
func New(cfg Config) (*Auditor, error) {
	if cfg.Timeout < 0 || cfg.Delay < 0 || cfg.MaxBodySize < 0 {
		return nil, model.NewFeedError(model.ErrorTypeConfiguration, "timeout, delay and max body size must not be negative").
			WithOperation("new_auditor").
			WithComponent("auditor")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = model.DefaultLogger()
	}

	client := cfg.HTTPClient
	if client == nil {
		client = NewHTTPClient(ClientConfig{
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
		})
	}

	return &Auditor{cfg: cfg, client: client, logger: cfg.Logger}, nil
}

// Run checks every entry in order and returns the resulting snapshot. A
// failing feed never stops the run; only a cancelled ctx does, in which case
// the error is returned alongside nil.
func (a *Auditor) Run(ctx context.Context, entries []model.FeedEntry) (*model.AuditSnapshot, error) {
	a.logger.InfoWithContext("starting audit", "auditor", "run", "", map[string]any{
		"feeds": len(entries),
		"tier":  a.cfg.Tier.String(),
	})

	results := make([]model.AuditResult, 0, len(entries))
	for i, entry := range entries {
		if err := a.pause(ctx); err != nil {
			return nil, err
		}
		result := a.Check(ctx, entry, a.cfg.Tier)
		results = append(results, result)
		a.report(i+1, len(entries), result)
	}

	snapshot := model.NewSnapshot(a.cfg.Now(), results)
	a.logger.InfoWithContext("audit complete", "auditor", "run", "", map[string]any{
		"total":   snapshot.TotalTested,
		"working": snapshot.WorkingCount,
		"broken":  snapshot.BrokenCount,
	})
	return snapshot, nil
}

// Check fetches one feed and classifies the response with the given tier.
// It does not wait for the delay; Run and Recheck do that between checks.
func (a *Auditor) Check(ctx context.Context, entry model.FeedEntry, tier classify.Tier) model.AuditResult {
	resp := a.fetch(ctx, entry.FeedURL)
	verdict := classify.Classify(resp, tier)

	result := model.NewAuditResult(entry)
	result.Status = verdict.Status
	result.IsValidXML = verdict.IsValidXML
	result.HasFeedElements = verdict.HasFeedElements
	result.FeedType = verdict.FeedType
	if verdict.Error != "" {
		result.Error = model.StringPtr(verdict.Error)
	}
	if resp.StatusCode != 0 {
		result.ResponseCode = model.IntPtr(resp.StatusCode)
		result.ContentType = model.StringPtr(resp.ContentType)
	}

	a.logger.DebugWithContext("feed checked", "auditor", "check", entry.FeedURL, map[string]any{
		"status": string(result.Status),
		"error":  result.ErrorText(),
		"tier":   tier.String(),
	})
	return result
}

func (a *Auditor) fetch(ctx context.Context, feedURL string) classify.Response {
	out := classify.Response{Timeout: a.cfg.Timeout}

	if err := model.ValidateFeedURL(feedURL, !a.cfg.BlockPrivateIPs); err != nil {
		out.Err = err
		return out
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		out.Err = err
		return out
	}

	defer func() {
		a.lastFetch = time.Now()
	}()
	resp, err := a.client.Do(req)
	if err != nil {
		a.markFailure(&out, err, feedURL)
		return out
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	out.StatusCode = resp.StatusCode
	out.ContentType = resp.Header.Get("Content-Type")
	if resp.StatusCode != http.StatusOK {
		a.logHTTPStatus(feedURL, resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.cfg.MaxBodySize+1))
	if err != nil {
		a.markFailure(&out, err, feedURL)
		return out
	}
	if int64(len(body)) > a.cfg.MaxBodySize {
		out.Err = fmt.Errorf("response body exceeds %d bytes", a.cfg.MaxBodySize)
		return out
	}
	out.Body = body
	return out
}

// pause waits until Delay has passed since the previous request finished.
func (a *Auditor) pause(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.cfg.Delay <= 0 || a.lastFetch.IsZero() {
		return nil
	}
	wait := time.Until(a.lastFetch.Add(a.cfg.Delay))
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (a *Auditor) logHTTPStatus(feedURL string, resp *http.Response) {
	feedErr := model.NewFeedError(model.ErrorTypeHTTP, "unexpected HTTP status").
		WithURL(feedURL).
		WithHTTP(resp.StatusCode, resp.Header)
	a.logger.WarnWithContext(feedErr.Message, "auditor", "fetch", feedURL, nil, map[string]any{
		"error_id":     feedErr.ID,
		"http_status":  feedErr.HTTPStatus,
		"http_headers": feedErr.HTTPHeaders,
	})
}

// markFailure turns a transport error into the classifier's failure flags.
func (a *Auditor) markFailure(out *classify.Response, err error, feedURL string) {
	feedErr := model.CreateNetworkError(err, feedURL)
	a.logger.WarnWithContext("fetch failed", "auditor", "fetch", feedURL, err, map[string]any{
		"error_id":   feedErr.ID,
		"error_type": string(feedErr.ErrorType),
	})

	switch {
	case model.IsTimeoutError(err):
		out.TimedOut = true
	case model.IsConnectionFailure(err):
		out.ConnectionFailed = true
	default:
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		out.Err = err
	}
}

func (a *Auditor) report(index, total int, result model.AuditResult) {
	if a.cfg.OnResult != nil {
		a.cfg.OnResult(index, total, result)
	}
}
