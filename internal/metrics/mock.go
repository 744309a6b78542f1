package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	matchesRecorded    int
	matchesRevised     int
	matchesDeleted     int
	entitiesCreated    map[string]int
	validationWarnings int
	statsComputed      int
	saveDurations      []float64
	slackNotifSent     int
	slackNotifFailed   int
	startupTime        float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		entitiesCreated: make(map[string]int),
		saveDurations:   make([]float64, 0),
	}
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncMatchesRevised() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRevised++
}

func (m *Mock) IncMatchesDeleted(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesDeleted += n
}

func (m *Mock) IncEntitiesCreated(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entitiesCreated[kind]++
}

func (m *Mock) AddValidationWarnings(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationWarnings += n
}

func (m *Mock) IncStatsComputed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsComputed++
}

func (m *Mock) ObserveSaveDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveDurations = append(m.saveDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesRecorded returns the number of times IncMatchesRecorded was called.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// MatchesRevised returns the number of times IncMatchesRevised was called.
func (m *Mock) MatchesRevised() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRevised
}

// MatchesDeleted returns the summed count passed to IncMatchesDeleted.
func (m *Mock) MatchesDeleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesDeleted
}

// EntitiesCreated returns how many entities of kind were created.
func (m *Mock) EntitiesCreated(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entitiesCreated[kind]
}

func (m *Mock) ValidationWarnings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validationWarnings
}

func (m *Mock) StatsComputed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsComputed
}

// SaveDurations returns a copy of every observed save duration.
func (m *Mock) SaveDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.saveDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
