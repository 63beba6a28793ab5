package model

import "time"

// TimestampLayout is the format of AuditSnapshot.Timestamp.
const TimestampLayout = time.RFC3339

// AuditSnapshot is the persisted record of one audit or recheck run.
type AuditSnapshot struct {
	Timestamp      string        `json:"timestamp"`
	TotalTested    int           `json:"total_tested"`
	WorkingCount   int           `json:"working_count"`
	BrokenCount    int           `json:"broken_count"`
	Working        []AuditResult `json:"working_feeds"`
	Broken         []AuditResult `json:"broken_feeds"`
	RecoveredCount int           `json:"recovered_count,omitempty"`
	DerivedFrom    string        `json:"derived_from,omitempty"`
}

// NewSnapshot partitions results into working and broken lists.
func NewSnapshot(at time.Time, results []AuditResult) *AuditSnapshot {
	s := &AuditSnapshot{
		Timestamp: at.Format(TimestampLayout),
		Working:   []AuditResult{},
		Broken:    []AuditResult{},
	}
	for _, r := range results {
		if r.Working() {
			s.Working = append(s.Working, r)
		} else {
			s.Broken = append(s.Broken, r)
		}
	}
	s.Recount()
	return s
}

// Recount recomputes the summary counts from the lists.
func (s *AuditSnapshot) Recount() {
	s.WorkingCount = len(s.Working)
	s.BrokenCount = len(s.Broken)
	s.TotalTested = s.WorkingCount + s.BrokenCount
}

// Clone returns a deep copy, so a derived snapshot never aliases its source.
func (s *AuditSnapshot) Clone() *AuditSnapshot {
	c := *s
	c.Working = cloneResults(s.Working)
	c.Broken = cloneResults(s.Broken)
	return &c
}

func cloneResults(in []AuditResult) []AuditResult {
	out := make([]AuditResult, len(in))
	for i, r := range in {
		if r.Error != nil {
			r.Error = StringPtr(*r.Error)
		}
		if r.ResponseCode != nil {
			r.ResponseCode = IntPtr(*r.ResponseCode)
		}
		if r.ContentType != nil {
			r.ContentType = StringPtr(*r.ContentType)
		}
		out[i] = r
	}
	return out
}
