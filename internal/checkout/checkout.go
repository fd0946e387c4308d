// Package checkout drives the per-user order dialogue: collect name, phone
// and address, then confirm or cancel. Dialogue state is ephemeral and held
// entirely in memory; durable business data stays in storage.
package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fotuneb/bot-e-commerce/internal/model"
	"github.com/fotuneb/bot-e-commerce/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State identifies a position in the checkout dialogue.
type State int

const (
	// StateIdle means no checkout is in progress for the user.
	StateIdle State = iota
	// StateCollectingName awaits the customer's name.
	StateCollectingName
	// StateCollectingPhone awaits the customer's phone.
	StateCollectingPhone
	// StateCollectingAddress awaits the delivery address.
	StateCollectingAddress
	// StateAwaitingConfirmation awaits confirm or cancel.
	StateAwaitingConfirmation
)

// String returns the state name for logging and rendering.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollectingName:
		return "collecting_name"
	case StateCollectingPhone:
		return "collecting_phone"
	case StateCollectingAddress:
		return "collecting_address"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "unknown"
	}
}

// Summary is the collected customer data presented for confirmation.
type Summary struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// session is one user's in-flight dialogue.
type session struct {
	id        uuid.UUID
	state     State
	info      model.CustomerInfo
	updatedAt time.Time
}

// janitorInterval is how often expired sessions are swept.
const janitorInterval = time.Minute

// Manager holds per-user checkout sessions and sequences the dialogue.
// Sessions expire after the configured TTL; expiry is enforced lazily on
// access and by a background sweep.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*session

	orders service.OrderService
	ttl    time.Duration
	logger zerolog.Logger

	done chan struct{}
	once sync.Once
}

// NewManager creates a checkout manager and starts the session janitor.
func NewManager(orders service.OrderService, sessionTTL time.Duration, logger zerolog.Logger) *Manager {
	m := &Manager{
		sessions: make(map[int64]*session),
		orders:   orders,
		ttl:      sessionTTL,
		logger:   logger.With().Str("component", "checkout").Logger(),
		done:     make(chan struct{}),
	}

	go m.janitor()

	return m
}

// Close stops the session janitor.
func (m *Manager) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

// Start begins a checkout dialogue for the user, overwriting any prior
// in-flight dialogue.
func (m *Manager) Start(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := &session{
		id:        uuid.New(),
		state:     StateCollectingName,
		updatedAt: time.Now(),
	}
	m.sessions[userID] = sess

	m.logger.Debug().
		Int64("user_id", userID).
		Str("session_id", sess.id.String()).
		Msg("checkout started")
}

// SubmitName stores the customer's name. Valid only while collecting the name.
func (m *Manager) SubmitName(userID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.liveSession(userID)
	if sess == nil || sess.state != StateCollectingName {
		return model.ErrStateMismatch
	}

	sess.info.Name = text
	sess.state = StateCollectingPhone
	sess.updatedAt = time.Now()

	return nil
}

// SubmitPhone stores the customer's phone. No format validation is applied.
func (m *Manager) SubmitPhone(userID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.liveSession(userID)
	if sess == nil || sess.state != StateCollectingPhone {
		return model.ErrStateMismatch
	}

	sess.info.Phone = text
	sess.state = StateCollectingAddress
	sess.updatedAt = time.Now()

	return nil
}

// SubmitAddress stores the delivery address and returns the confirmation
// summary.
func (m *Manager) SubmitAddress(userID int64, text string) (*Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.liveSession(userID)
	if sess == nil || sess.state != StateCollectingAddress {
		return nil, model.ErrStateMismatch
	}

	sess.info.Address = text
	sess.state = StateAwaitingConfirmation
	sess.updatedAt = time.Now()

	return &Summary{
		Name:    sess.info.Name,
		Phone:   sess.info.Phone,
		Address: sess.info.Address,
	}, nil
}

// Confirm completes the checkout. Valid only while awaiting confirmation.
// Whatever the outcome, the dialogue returns to idle: a created order ends
// the dialogue, an empty cart aborts it without an order, and a placement
// failure leaves the cart intact for a fresh attempt.
func (m *Manager) Confirm(ctx context.Context, userID int64) (*model.Order, error) {
	m.mu.Lock()
	sess := m.liveSession(userID)
	if sess == nil || sess.state != StateAwaitingConfirmation {
		m.mu.Unlock()
		return nil, model.ErrStateMismatch
	}
	info := sess.info
	sessionID := sess.id
	m.mu.Unlock()

	order, err := m.orders.PlaceOrder(ctx, userID, info)

	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()

	if err != nil {
		if errors.Is(err, model.ErrEmptyCart) {
			m.logger.Debug().
				Int64("user_id", userID).
				Str("session_id", sessionID.String()).
				Msg("checkout aborted: empty cart")
			return nil, err
		}
		m.logger.Error().Err(err).
			Int64("user_id", userID).
			Str("session_id", sessionID.String()).
			Msg("checkout failed")
		return nil, err
	}

	m.logger.Info().
		Int64("user_id", userID).
		Str("session_id", sessionID.String()).
		Str("order_number", order.OrderNumber).
		Msg("checkout completed")

	return order, nil
}

// Cancel aborts the dialogue from any state. No storage is touched.
func (m *Manager) Cancel(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[userID]; ok {
		delete(m.sessions, userID)
		m.logger.Debug().Int64("user_id", userID).Msg("checkout cancelled")
	}
}

// State returns the user's current dialogue state, idle when no live session
// exists.
func (m *Manager) State(userID int64) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.liveSession(userID)
	if sess == nil {
		return StateIdle
	}
	return sess.state
}

// liveSession returns the user's session, dropping it when expired.
// Callers must hold the mutex.
func (m *Manager) liveSession(userID int64) *session {
	sess, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	if time.Since(sess.updatedAt) > m.ttl {
		delete(m.sessions, userID)
		m.logger.Debug().
			Int64("user_id", userID).
			Str("session_id", sess.id.String()).
			Msg("checkout session expired")
		return nil
	}
	return sess
}

// janitor periodically sweeps expired sessions so abandoned dialogues do not
// accumulate.
func (m *Manager) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for userID, sess := range m.sessions {
		if now.Sub(sess.updatedAt) > m.ttl {
			delete(m.sessions, userID)
			m.logger.Debug().
				Int64("user_id", userID).
				Str("session_id", sess.id.String()).
				Msg("checkout session swept")
		}
	}
}
