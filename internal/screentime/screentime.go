// Package screentime holds the collaborators that would talk to the
// platform's screen-time services. Nothing here collects usage data.
package screentime

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/MrSnakeDoc/mindnest/internal/logger"
)

// DailyMonitorName is the schedule the app registers at startup.
const DailyMonitorName = "daily-monitor"

// ErrAlreadyMonitoring is returned when a schedule name is started twice.
var ErrAlreadyMonitoring = errors.New("schedule already being monitored")

// Authorizer asks the user for permission to read screen-time data.
type Authorizer interface {
	RequestAuthorization(ctx context.Context) (bool, error)
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context) (bool, error)

func (f AuthorizerFunc) RequestAuthorization(ctx context.Context) (bool, error) { return f(ctx) }

// OnceAuthorizer asks at most once and remembers the answer. A failed
// request counts as a denial.
type OnceAuthorizer struct {
	inner  Authorizer
	log    logger.Logger
	once   sync.Once
	result bool
}

// NewOnceAuthorizer wraps inner.
func NewOnceAuthorizer(inner Authorizer, log logger.Logger) *OnceAuthorizer {
	if log == nil {
		log = logger.Nop()
	}
	return &OnceAuthorizer{inner: inner, log: log}
}

// Authorized requests authorization on the first call and returns the
// cached outcome afterwards.
func (a *OnceAuthorizer) Authorized(ctx context.Context) bool {
	a.once.Do(func() {
		ok, err := a.inner.RequestAuthorization(ctx)
		if err != nil {
			a.log.Warn("screen time authorization failed", logger.Error(err))
			return
		}
		a.result = ok
		a.log.Info("screen time authorization", logger.Bool("granted", ok))
	})
	return a.result
}

// TimeOfDay is an hour and minute on a 24h clock.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Schedule is a daily monitoring window.
type Schedule struct {
	Start   TimeOfDay `json:"start"`
	End     TimeOfDay `json:"end"`
	Repeats bool      `json:"repeats"`
}

// Validate checks the window bounds.
func (s Schedule) Validate() error {
	for _, t := range []TimeOfDay{s.Start, s.End} {
		if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
			return fmt.Errorf("invalid time of day %02d:%02d", t.Hour, t.Minute)
		}
	}
	return nil
}

// DailySchedule covers the whole day and repeats.
func DailySchedule() Schedule {
	return Schedule{
		Start:   TimeOfDay{Hour: 0, Minute: 0},
		End:     TimeOfDay{Hour: 23, Minute: 59},
		Repeats: true,
	}
}

// Monitor starts and stops named monitoring schedules.
type Monitor interface {
	StartMonitoring(name string, schedule Schedule) error
	StopMonitoring(names ...string)
}

// MemoryMonitor records active schedules without contacting any platform
// service.
type MemoryMonitor struct {
	mu     sync.Mutex
	active map[string]Schedule
	log    logger.Logger
}

// NewMemoryMonitor creates an idle monitor.
func NewMemoryMonitor(log logger.Logger) *MemoryMonitor {
	if log == nil {
		log = logger.Nop()
	}
	return &MemoryMonitor{active: make(map[string]Schedule), log: log}
}

func (m *MemoryMonitor) StartMonitoring(name string, schedule Schedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.active[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyMonitoring, name)
	}
	m.active[name] = schedule
	m.log.Info("monitoring started", logger.String("schedule", name))
	return nil
}

func (m *MemoryMonitor) StopMonitoring(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range names {
		if _, ok := m.active[name]; ok {
			delete(m.active, name)
			m.log.Info("monitoring stopped", logger.String("schedule", name))
		}
	}
}

// Active returns the names of running schedules, sorted.
func (m *MemoryMonitor) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.active))
	for name := range m.active {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
