package usecase

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mesaYaMenu/internal/modules/ordering/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// CustomerSession holds the state of one open menu page. All fields below mu
// are guarded by it; upstream calls run with mu released.
type CustomerSession struct {
	ID           string
	RestaurantID int
	Restaurant   domain.RestaurantContext
	CreatedAt    time.Time

	lastSeen atomic.Int64

	mu        sync.Mutex
	menu      []domain.MenuItem
	menuError string
	cart      *domain.Cart
	customer  domain.CustomerInfo
	cartOpen  bool
}

func newCustomerSession(id string, restaurant domain.RestaurantContext, now time.Time) *CustomerSession {
	session := &CustomerSession{
		ID:           id,
		RestaurantID: restaurant.ID,
		Restaurant:   restaurant,
		CreatedAt:    now.UTC(),
		cart:         domain.NewCart(),
	}
	session.lastSeen.Store(now.UnixNano())
	return session
}

// SessionStore keeps customer sessions in memory, keyed by a random id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*CustomerSession
	newID    func() string
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*CustomerSession),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (s *SessionStore) Create(restaurant domain.RestaurantContext) *CustomerSession {
	session := newCustomerSession(s.newID(), restaurant, s.now())
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

// Get returns a session and marks it as recently used.
func (s *SessionStore) Get(id string) (*CustomerSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[strings.TrimSpace(id)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.lastSeen.Store(s.now().UnixNano())
	return session, nil
}

// Sweep drops sessions nobody has touched for longer than idle and returns
// their ids.
func (s *SessionStore) Sweep(idle time.Duration) []string {
	cutoff := s.now().Add(-idle).UnixNano()
	s.mu.Lock()
	defer s.mu.Unlock()
	var evicted []string
	for id, session := range s.sessions {
		if session.lastSeen.Load() < cutoff {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

// ForRestaurant lists the ids of sessions open on a restaurant's menu.
func (s *SessionStore) ForRestaurant(restaurantID int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, session := range s.sessions {
		if session.RestaurantID == restaurantID {
			ids = append(ids, id)
		}
	}
	return ids
}

// LocateSession lets the websocket layer bind sockets to customer sessions.
func (s *SessionStore) LocateSession(id string) (string, bool) {
	session, err := s.Get(id)
	if err != nil {
		return "", false
	}
	return strconv.Itoa(session.RestaurantID), true
}
