package service

import (
	"sync"
	"time"
)

// ReportStore keeps generated import reports in memory for a limited time so
// the caller can download the per-row outcome CSV after a commit.
type ReportStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]reportEntry
}

type reportEntry struct {
	createdAt time.Time
	content   string
}

func NewReportStore(ttl time.Duration) *ReportStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ReportStore{
		ttl:     ttl,
		entries: make(map[string]reportEntry),
	}
}

// Store saves the CSV content under the token.
func (s *ReportStore) Store(token, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = reportEntry{createdAt: time.Now(), content: content}
}

// Fetch returns the CSV content, or "" and false when the token is unknown
// or expired.
func (s *ReportStore) Fetch(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return "", false
	}
	if time.Since(entry.createdAt) > s.ttl {
		delete(s.entries, token)
		return "", false
	}
	return entry.content, true
}

// PurgeExpired drops entries older than the TTL.
func (s *ReportStore) PurgeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, entry := range s.entries {
		if now.Sub(entry.createdAt) > s.ttl {
			delete(s.entries, token)
		}
	}
}
