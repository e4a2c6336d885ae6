// Package cost tracks API spend against daily and monthly budgets.
package cost

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/vibecodehq/vibe/internal/agent"
	"github.com/vibecodehq/vibe/internal/contextstore"
)

// Pricing is USD per million tokens.
type Pricing struct {
	Input      float64
	Output     float64
	CacheRead  float64
	CacheWrite float64
}

// Default budgets in USD.
const (
	DefaultDailyBudget   = 10.00
	DefaultMonthlyBudget = 100.00
)

var (
	sonnetPricing = Pricing{Input: 3.00, Output: 15.00, CacheRead: 0.30, CacheWrite: 3.75}
	haikuPricing  = Pricing{Input: 1.00, Output: 5.00, CacheRead: 0.10, CacheWrite: 1.25}
	opusPricing   = Pricing{Input: 5.00, Output: 25.00, CacheRead: 0.50, CacheWrite: 6.25}
)

// PricingFor returns the price table for a model, matched by family.
// Unknown models are priced as Sonnet.
func PricingFor(model string) Pricing {
	lowered := strings.ToLower(model)
	switch {
	case strings.Contains(lowered, "haiku"):
		return haikuPricing
	case strings.Contains(lowered, "opus"):
		return opusPricing
	default:
		return sonnetPricing
	}
}

// Cost computes the USD cost of one call's usage.
func (p Pricing) Cost(u agent.Usage) float64 {
	return float64(u.InputTokens)/1_000_000*p.Input +
		float64(u.OutputTokens)/1_000_000*p.Output +
		float64(u.CacheReadTokens)/1_000_000*p.CacheRead +
		float64(u.CacheWriteTokens)/1_000_000*p.CacheWrite
}

// Budgets are alert thresholds in USD. Zero fields fall back to the
// defaults.
type Budgets struct {
	Daily   float64
	Monthly float64
}

// Tracker records usage through the context store and accumulates
// session totals.
type Tracker struct {
	store   *contextstore.Store
	budgets Budgets

	mu           sync.Mutex
	sessionCost  float64
	sessionCalls int
	sessionStart time.Time
}

// NewTracker creates a tracker persisting through store.
func NewTracker(store *contextstore.Store, budgets Budgets) *Tracker {
	if budgets.Daily == 0 {
		budgets.Daily = DefaultDailyBudget
	}
	if budgets.Monthly == 0 {
		budgets.Monthly = DefaultMonthlyBudget
	}
	return &Tracker{
		store:        store,
		budgets:      budgets,
		sessionStart: time.Now(),
	}
}

// Track prices and persists one call's usage, returning its cost.
// Budget overruns are logged but never block.
func (t *Tracker) Track(model string, u agent.Usage) (float64, error) {
	c := PricingFor(model).Cost(u)

	err := t.store.RecordUsage(contextstore.UsageRecord{
		Model:            model,
		InputTokens:      u.InputTokens,
		OutputTokens:     u.OutputTokens,
		CacheReadTokens:  u.CacheReadTokens,
		CacheWriteTokens: u.CacheWriteTokens,
		Cost:             c,
	})
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	t.sessionCost += c
	t.sessionCalls++
	t.mu.Unlock()

	t.checkBudgets()
	return c, nil
}

// SessionCost returns the cost accumulated since the tracker was created.
func (t *Tracker) SessionCost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionCost
}

// SessionCalls returns the number of calls tracked this session.
func (t *Tracker) SessionCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionCalls
}

// DailyCost returns today's spend.
func (t *Tracker) DailyCost() (float64, error) {
	totals, err := t.store.UsageSince(startOfDay(time.Now()))
	if err != nil {
		return 0, err
	}
	return totals.Cost, nil
}

// MonthlyCost returns this month's spend.
func (t *Tracker) MonthlyCost() (float64, error) {
	totals, err := t.store.UsageSince(startOfMonth(time.Now()))
	if err != nil {
		return 0, err
	}
	return totals.Cost, nil
}

func (t *Tracker) checkBudgets() {
	daily, err := t.DailyCost()
	if err != nil {
		return
	}
	if daily > t.budgets.Daily {
		log.Printf("[cost] daily budget exceeded: $%.2f / $%.2f", daily, t.budgets.Daily)
	}

	monthly, err := t.MonthlyCost()
	if err != nil {
		return
	}
	if monthly > t.budgets.Monthly {
		log.Printf("[cost] monthly budget exceeded: $%.2f / $%.2f", monthly, t.budgets.Monthly)
	}
}

func startOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

func startOfMonth(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
}
