package connection

import (
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultPollSpec is the cron spec of the indicator refresh
const DefaultPollSpec = "@every 2s"

// Checker reports whether the store can be called. sheet.Store satisfies it
type Checker interface {
	Configured() bool
}

// Status is the connected indicator
type Status struct {
	Connected bool      `json:"connected"`
	Endpoint  string    `json:"endpoint"`
	Source    Source    `json:"source"`
	CheckedAt time.Time `json:"checked_at"`
}

// Monitor refreshes the connected indicator on a timer. It is informational only
type Monitor struct {
	settings *Settings
	store    Checker
	spec     string
	cron     *cron.Cron

	mutex  sync.RWMutex
	status Status
}

// NewMonitor creates a monitor polling on spec (DefaultPollSpec when empty)
func NewMonitor(settings *Settings, store Checker, spec string) *Monitor {
	if spec == "" {
		spec = DefaultPollSpec
	}

	m := &Monitor{
		settings: settings,
		store:    store,
		spec:     spec,
		cron:     cron.New(),
	}
	m.Refresh()

	return m
}

// Start schedules the refresh
func (m *Monitor) Start() error {
	if _, err := m.cron.AddFunc(m.spec, func() { m.Refresh() }); err != nil {
		return err
	}
	m.cron.Start()
	return nil
}

// Stop halts polling
func (m *Monitor) Stop() {
	m.cron.Stop()
}

// Refresh re-reads the settings and store and updates the indicator
func (m *Monitor) Refresh() Status {
	status := Status{
		Connected: m.store != nil && m.store.Configured(),
		Endpoint:  m.settings.Endpoint(),
		Source:    m.settings.Source(),
		CheckedAt: time.Now(),
	}

	m.mutex.Lock()
	changed := m.status.Connected != status.Connected
	m.status = status
	m.mutex.Unlock()

	if changed {
		log.Printf("[CONNECTION]: Store connected: %t", status.Connected)
	}

	return status
}

// Status returns the last refreshed indicator
func (m *Monitor) Status() Status {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.status
}

// Settings returns the monitored settings
func (m *Monitor) Settings() *Settings {
	return m.settings
}
