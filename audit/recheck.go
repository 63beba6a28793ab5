package audit

import (
	"context"

	"github.com/kstenson/paperboy/classify"
	"github.com/kstenson/paperboy/model"
)

// NeedsRecheck reports whether a broken result was rejected only for
// lacking feed elements, which the broadened test may overturn.
func NeedsRecheck(r model.AuditResult) bool {
	return !r.Working() && classify.Category(r.ErrorText(), r.ResponseCode) == classify.CategoryNoFeedElements
}

// Recheck re-fetches the broken feeds selected by NeedsRecheck and
// reclassifies them with the broadened test. Recovered feeds are appended to
// the working list; the rest stay in broken with their new outcome. Other
// broken feeds are carried over untouched.
//
// prior is not modified; the returned snapshot is a new value.
func (a *Auditor) Recheck(ctx context.Context, prior *model.AuditSnapshot) (*model.AuditSnapshot, error) {
	next := prior.Clone()
	next.Timestamp = a.cfg.Now().Format(model.TimestampLayout)
	next.DerivedFrom = prior.Timestamp

	var suspects []model.AuditResult
	for _, r := range next.Broken {
		if NeedsRecheck(r) {
			suspects = append(suspects, r)
		}
	}
	a.logger.InfoWithContext("starting recheck", "auditor", "recheck", "", map[string]any{
		"suspects": len(suspects),
	})

	broken := make([]model.AuditResult, 0, len(next.Broken))
	recovered := 0
	checked := 0
	for _, r := range next.Broken {
		if !NeedsRecheck(r) {
			broken = append(broken, r)
			continue
		}
		if err := a.pause(ctx); err != nil {
			return nil, err
		}

		fresh := a.Check(ctx, r.Entry(), classify.Broadened)
		checked++
		a.report(checked, len(suspects), fresh)

		if fresh.Working() {
			next.Working = append(next.Working, fresh)
			recovered++
			continue
		}
		broken = append(broken, fresh)
	}

	next.Broken = broken
	next.RecoveredCount = prior.RecoveredCount + recovered
	next.Recount()

	a.logger.InfoWithContext("recheck complete", "auditor", "recheck", "", map[string]any{
		"recovered":    recovered,
		"still_broken": len(suspects) - recovered,
	})
	return next, nil
}
