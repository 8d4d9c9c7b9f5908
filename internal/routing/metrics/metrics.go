package metrics

import (
	"sync"
	"time"
)

// Metrics tracks route command outcomes for the manager
type Metrics struct {
	Commands      int64
	SuccessfulOps int64
	FailedOps     int64
	AverageOpTime time.Duration
	PhantomScans  int64
	LastUpdate    time.Time
	mutex         sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdate: time.Now(),
	}
}

// RecordCommand records the outcome of one issued route command
func (m *Metrics) RecordCommand(duration time.Duration, success bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.Commands++
	if success {
		m.SuccessfulOps++
	} else {
		m.FailedOps++
	}

	if m.AverageOpTime == 0 {
		m.AverageOpTime = duration
	} else {
		m.AverageOpTime = (m.AverageOpTime + duration) / 2
	}

	m.LastUpdate = time.Now()
}

// RecordPhantomScan records one reconciliation pass
func (m *Metrics) RecordPhantomScan() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.PhantomScans++
}

// GetStats returns the metrics statistics
func (m *Metrics) GetStats() (int64, int64, int64, time.Duration, int64) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.Commands, m.SuccessfulOps, m.FailedOps, m.AverageOpTime, m.PhantomScans
}
