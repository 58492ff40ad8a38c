package cart

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/internal/session"
	"github.com/oakmart/storefront-backend/pkg/logger"
)

// Manager hands out one reconciler per signed-in user. Anonymous requests
// share a single empty reconciler.
type Manager struct {
	store    Store
	resolver ProductResolver
	logg     *logger.Logger

	mu          sync.Mutex
	reconcilers map[uuid.UUID]*Reconciler
	anonymous   *Reconciler
}

// NewManager builds the registry and subscribes to session changes so
// sign-outs drop the departing user's mirror.
func NewManager(store Store, resolver ProductResolver, holder *session.Holder, logg *logger.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("product resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	anonymous, err := NewReconciler(uuid.Nil, store, resolver, logg)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		store:       store,
		resolver:    resolver,
		logg:        logg,
		reconcilers: map[uuid.UUID]*Reconciler{},
		anonymous:   anonymous,
	}

	if holder != nil {
		holder.Subscribe(func(prev, next *session.Session) {
			if prev.Anonymous() {
				return
			}
			if next.Anonymous() || next.UserID != prev.UserID {
				m.Drop(prev.UserID)
			}
		})
	}

	return m, nil
}

// ForUser returns the user's reconciler, creating one on first use.
func (m *Manager) ForUser(userID uuid.UUID) *Reconciler {
	if userID == uuid.Nil {
		return m.anonymous
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.reconcilers[userID]; ok {
		return existing
	}

	reconciler, err := NewReconciler(userID, m.store, m.resolver, m.logg)
	if err != nil {
		// NewReconciler only fails on nil deps, which NewManager rejected.
		return m.anonymous
	}
	m.reconcilers[userID] = reconciler
	return reconciler
}

// ForSession resolves the reconciler for the request's session.
func (m *Manager) ForSession(s *session.Session) *Reconciler {
	if s.Anonymous() {
		return m.anonymous
	}
	return m.ForUser(s.UserID)
}

// Drop discards the user's mirror. The next request rebuilds it via Load.
func (m *Manager) Drop(userID uuid.UUID) {
	m.mu.Lock()
	delete(m.reconcilers, userID)
	m.mu.Unlock()
}
