package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dishboard/console/internal/upstream"
	"github.com/dishboard/console/repository"
)

// Monitor periodically probes the upstream API and the session store so the
// health endpoint can answer without blocking on a live round trip.
type Monitor struct {
	client *upstream.Client
	store  repository.SessionStore

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(client *upstream.Client, store repository.SessionStore, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		client:   client,
		store:    store,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

// IsOnline reports whether the upstream API answered the last probe.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Upstream
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	status := Status{
		Upstream:     m.checkUpstream(),
		SessionStore: m.checkStore(),
		LastCheck:    time.Now(),
	}
	if m.client != nil {
		status.Cache = m.client.Cache().Stats()
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) checkUpstream() bool {
	if m.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := m.client.Ping(ctx); err != nil {
		m.logger.Warn("upstream probe failed", zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) checkStore() bool {
	if m.store == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := m.store.Load(ctx)
	return err == nil
}
