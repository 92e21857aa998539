package usecase

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mesaYaMenu/internal/modules/owner/domain"
)

var (
	ErrDashboardNotFound = errors.New("dashboard not found")
	ErrDashboardBusy     = errors.New("a request for this dashboard is already in progress")
)

// Dashboard is one open owner page. DeviceID names the durable storage
// namespace the page persists its token under.
type Dashboard struct {
	ID        string
	DeviceID  string
	CreatedAt time.Time

	lastSeen atomic.Int64

	mu         sync.Mutex
	mode       domain.AuthMode
	token      string
	restaurant domain.RestaurantDraft
	drafts     []domain.MenuItemDraft
	categories []domain.Category
	saved      *domain.SavedRestaurant
	busy       bool
}

// begin marks an upstream call in flight. Callers hold mu.
func (d *Dashboard) begin() error {
	if d.busy {
		return ErrDashboardBusy
	}
	d.busy = true
	return nil
}

func (d *Dashboard) end() {
	d.mu.Lock()
	d.busy = false
	d.mu.Unlock()
}

type DashboardStore struct {
	mu         sync.RWMutex
	dashboards map[string]*Dashboard
	newID      func() string
	now        func() time.Time
}

func NewDashboardStore() *DashboardStore {
	return &DashboardStore{
		dashboards: make(map[string]*Dashboard),
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

func (s *DashboardStore) Create(deviceID string) *Dashboard {
	dashboard := &Dashboard{
		ID:         s.newID(),
		DeviceID:   deviceID,
		CreatedAt:  s.now().UTC(),
		mode:       domain.AuthModeRegister,
		categories: domain.FallbackCategories(),
	}
	dashboard.lastSeen.Store(s.now().UnixNano())
	s.mu.Lock()
	s.dashboards[dashboard.ID] = dashboard
	s.mu.Unlock()
	return dashboard
}

// Get returns a dashboard and marks it as recently used.
func (s *DashboardStore) Get(id string) (*Dashboard, error) {
	s.mu.RLock()
	dashboard, ok := s.dashboards[strings.TrimSpace(id)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrDashboardNotFound
	}
	dashboard.lastSeen.Store(s.now().UnixNano())
	return dashboard, nil
}

// Sweep drops dashboards idle for longer than idle and returns their ids.
// A dashboard with an upstream call in flight is kept.
func (s *DashboardStore) Sweep(idle time.Duration) []string {
	cutoff := s.now().Add(-idle).UnixNano()
	s.mu.Lock()
	defer s.mu.Unlock()
	var evicted []string
	for id, d := range s.dashboards {
		if d.lastSeen.Load() >= cutoff {
			continue
		}
		d.mu.Lock()
		busy := d.busy
		d.mu.Unlock()
		if busy {
			continue
		}
		delete(s.dashboards, id)
		evicted = append(evicted, id)
	}
	return evicted
}

// ForSaved lists dashboards whose last save produced the given restaurant.
func (s *DashboardStore) ForSaved(restaurantID int) []string {
	s.mu.RLock()
	dashboards := make([]*Dashboard, 0, len(s.dashboards))
	for _, d := range s.dashboards {
		dashboards = append(dashboards, d)
	}
	s.mu.RUnlock()

	var ids []string
	for _, d := range dashboards {
		d.mu.Lock()
		if d.saved != nil && d.saved.ID == restaurantID {
			ids = append(ids, d.ID)
		}
		d.mu.Unlock()
	}
	return ids
}

// LocateSession binds sockets to dashboards. Dashboards are not tied to a
// restaurant's menu, so the restaurant key is always empty.
func (s *DashboardStore) LocateSession(id string) (string, bool) {
	if _, err := s.Get(id); err != nil {
		return "", false
	}
	return "", true
}
