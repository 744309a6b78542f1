package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/tennis-ledger/internal/stats"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendMatchResultFunc  func(match *tennis.Match) error
	SendStatsSummaryFunc func(owner string, summary stats.Stats) error

	// Call records
	SendMatchResultCalls  []SendMatchResultCall
	SendStatsSummaryCalls []SendStatsSummaryCall
}

type SendMatchResultCall struct {
	Match  tennis.Match
	DryRun bool
}

type SendStatsSummaryCall struct {
	Owner   string
	Summary stats.Stats
	DryRun  bool
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendStatsSummaryCalls = nil
}

func (m *Mock) SendMatchResult(ctx context.Context, match *tennis.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, SendMatchResultCall{Match: *match, DryRun: IsDryRun(ctx)})
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(match)
	}
	return nil
}

func (m *Mock) SendStatsSummary(ctx context.Context, owner string, summary stats.Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendStatsSummaryCalls = append(m.SendStatsSummaryCalls, SendStatsSummaryCall{Owner: owner, Summary: summary, DryRun: IsDryRun(ctx)})
	if m.SendStatsSummaryFunc != nil {
		return m.SendStatsSummaryFunc(owner, summary)
	}
	return nil
}

// MatchResults returns a copy of the recorded SendMatchResult calls.
func (m *Mock) MatchResults() []SendMatchResultCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SendMatchResultCall(nil), m.SendMatchResultCalls...)
}

// StatsSummaries returns a copy of the recorded SendStatsSummary calls.
func (m *Mock) StatsSummaries() []SendStatsSummaryCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SendStatsSummaryCall(nil), m.SendStatsSummaryCalls...)
}
