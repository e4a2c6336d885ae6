package contextstore

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UsageRecord is one billed API call.
type UsageRecord struct {
	// ID is generated when empty.
	ID string
	// Model is the model that served the call.
	Model string
	// InputTokens and OutputTokens are the billed token counts.
	InputTokens  int64
	OutputTokens int64
	// CacheReadTokens and CacheWriteTokens are prompt-cache counts.
	CacheReadTokens  int64
	CacheWriteTokens int64
	// Cost is the computed cost in USD.
	Cost float64
	// CreatedAt defaults to now.
	CreatedAt time.Time
}

// UsageTotals aggregates usage records over a window.
type UsageTotals struct {
	Calls        int
	InputTokens  int64
	OutputTokens int64
	Cost         float64
}

// RecordUsage appends a usage record.
func (s *Store) RecordUsage(u UsageRecord) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(`
		INSERT INTO usage (id, model, input_tokens, output_tokens, cache_read_tokens, cache_write_tokens, cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Model, u.InputTokens, u.OutputTokens, u.CacheReadTokens, u.CacheWriteTokens, u.Cost, formatTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// UsageSince aggregates usage recorded at or after the given time.
func (s *Store) UsageSince(since time.Time) (UsageTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t UsageTotals
	err := s.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0), COALESCE(SUM(cost), 0.0)
		FROM usage WHERE created_at >= ?
	`, formatTime(since)).Scan(&t.Calls, &t.InputTokens, &t.OutputTokens, &t.Cost)
	if err != nil {
		return UsageTotals{}, fmt.Errorf("aggregate usage: %w", err)
	}
	return t, nil
}
