// Package sessions manages per-visitor selection sessions: creating them,
// applying state-machine transitions and handing completed selections to the
// gift dispatcher.
package sessions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kiddarkness/itemshop/internal/app/domain/selection"
	"github.com/kiddarkness/itemshop/internal/app/services/catalog"
	"github.com/kiddarkness/itemshop/internal/app/services/gift"
	"github.com/kiddarkness/itemshop/internal/app/services/users"
	"github.com/kiddarkness/itemshop/internal/app/storage"
	"github.com/kiddarkness/itemshop/pkg/logger"
)

// Service tracks selection sessions and applies user-triggered transitions.
// All mutation is synchronous per request; nothing mutates a session in the
// background.
type Service struct {
	store       storage.SessionStore
	catalog     *catalog.Service
	provider    users.Provider
	dispatcher  *gift.Dispatcher
	defaultCode string
	log         *logger.Logger
}

// New constructs a session service. Provider and dispatcher are attached
// separately since some deployments wire them conditionally.
func New(store storage.SessionStore, catalogSvc *catalog.Service, defaultCode string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("sessions")
	}
	if defaultCode == "" {
		defaultCode = "KIDDX"
	}
	return &Service{
		store:       store,
		catalog:     catalogSvc,
		defaultCode: defaultCode,
		log:         log,
	}
}

// AttachProvider assigns the user-context provider used at dispatch time.
func (s *Service) AttachProvider(provider users.Provider) {
	s.provider = provider
}

// AttachDispatcher assigns the outbound gift dispatcher.
func (s *Service) AttachDispatcher(dispatcher *gift.Dispatcher) {
	s.dispatcher = dispatcher
}

// Create opens a new empty session bound to the visitor's account hint.
func (s *Service) Create(ctx context.Context, accountID string) (selection.State, error) {
	st := selection.NewState(uuid.NewString(), strings.TrimSpace(accountID), s.defaultCode)
	created, err := s.store.CreateSession(ctx, st)
	if err != nil {
		return selection.State{}, err
	}
	s.log.WithField("session_id", created.ID).Info("session created")
	return created, nil
}

// Get returns the current state of a session.
func (s *Service) Get(ctx context.Context, id string) (selection.State, error) {
	return s.store.GetSession(ctx, id)
}

// Select looks the clicked item up in the current catalog snapshot and makes
// it the session's selection, resetting operation, recipient and quantity.
func (s *Service) Select(ctx context.Context, id, name, category string) (selection.State, error) {
	st, err := s.store.GetSession(ctx, id)
	if err != nil {
		return selection.State{}, err
	}
	item, err := s.catalog.Lookup(ctx, name, category)
	if err != nil {
		return selection.State{}, err
	}
	st.Select(item)
	return s.store.UpdateSession(ctx, st)
}

// SetOperation toggles the session between buy and gift.
func (s *Service) SetOperation(ctx context.Context, id string, op selection.Operation) (selection.State, error) {
	if !op.Valid() {
		return selection.State{}, fmt.Errorf("unsupported operation %s", op)
	}
	st, err := s.store.GetSession(ctx, id)
	if err != nil {
		return selection.State{}, err
	}
	st.SetOperation(op)
	return s.store.UpdateSession(ctx, st)
}

// SetQuantity stores the requested amount. Deliberately unvalidated beyond
// type shape; the backend rejects what it will not fulfill.
func (s *Service) SetQuantity(ctx context.Context, id string, amount int) (selection.State, error) {
	st, err := s.store.GetSession(ctx, id)
	if err != nil {
		return selection.State{}, err
	}
	st.SetQuantity(amount)
	return s.store.UpdateSession(ctx, st)
}

// SetRecipient records the chosen friend's username for a gift.
func (s *Service) SetRecipient(ctx context.Context, id, username string) (selection.State, error) {
	st, err := s.store.GetSession(ctx, id)
	if err != nil {
		return selection.State{}, err
	}
	st.SetRecipient(strings.TrimSpace(username))
	return s.store.UpdateSession(ctx, st)
}

// SetSupportCode records the creator attribution code.
func (s *Service) SetSupportCode(ctx context.Context, id, code string) (selection.State, error) {
	st, err := s.store.GetSession(ctx, id)
	if err != nil {
		return selection.State{}, err
	}
	st.SetSupportCode(code)
	return s.store.UpdateSession(ctx, st)
}

// Send resolves the session's user context, dispatches the buy/gift request
// and resets the selection on success. The returned message is what the user
// sees, whether the backend accepted or rejected the request.
func (s *Service) Send(ctx context.Context, id string) (string, error) {
	if s.provider == nil || s.dispatcher == nil {
		return "", fmt.Errorf("gift dispatch is not configured")
	}

	st, err := s.store.GetSession(ctx, id)
	if err != nil {
		return "", err
	}
	if !st.Selected() {
		return "", fmt.Errorf("no item selected")
	}
	if st.AccountID == "" {
		return "", fmt.Errorf("session has no account_id")
	}

	usr, err := s.provider.Resolve(ctx, st.AccountID)
	if err != nil {
		return "", fmt.Errorf("resolve user context: %w", err)
	}

	message, err := s.dispatcher.Dispatch(ctx, st, usr)
	if err != nil {
		s.log.WithError(err).WithField("session_id", id).Warn("gift dispatch failed")
		return message, nil
	}

	st.Reset()
	if _, err := s.store.UpdateSession(ctx, st); err != nil {
		s.log.WithError(err).WithField("session_id", id).Warn("reset session failed")
	}
	return message, nil
}
