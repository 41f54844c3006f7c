package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/client/securestore"
	"github.com/dmitrijs2005/gymdesk/internal/common"
	"github.com/dmitrijs2005/gymdesk/internal/logging"
)

// State is a snapshot of the session.
type State struct {
	User            *models.Identity
	SessionToken    string
	IsAuthenticated bool
	IsLoading       bool
}

// Store owns the session state. The zero value is not usable; call New.
type Store struct {
	mu      sync.Mutex
	secrets securestore.Store
	log     logging.Logger
	state   State
}

// New returns a store in the loading state. Call Initialize once at start.
func New(secrets securestore.Store, log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		secrets: secrets,
		log:     log,
		state:   State{IsLoading: true},
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// Initialize adopts a previously persisted credential without asking the
// backend whether it is still valid. Read failures are logged. IsLoading is
// false afterwards in every case.
func (s *Store) Initialize(ctx context.Context) {
	token, ok, err := s.secrets.Get(ctx, common.SessionTokenKey)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = false

	if err != nil {
		s.log.Error(ctx, "failed to restore session", "err", err)
		return
	}
	if ok && token != "" {
		s.state.SessionToken = token
	}
}

// SetUser replaces the identity. A nil identity marks the session as
// unauthenticated; the credential is left alone.
func (s *Store) SetUser(u *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u == nil {
		s.state.User = nil
		s.state.IsAuthenticated = false
		return
	}
	cp := *u
	s.state.User = &cp
	s.state.IsAuthenticated = true
}

// SetSessionToken persists token, or deletes the persisted credential when
// token is empty, and then updates memory. A storage failure is returned and
// memory is not touched.
func (s *Store) SetSessionToken(ctx context.Context, token string) error {
	var err error
	if token == "" {
		err = s.secrets.Delete(ctx, common.SessionTokenKey)
	} else {
		err = s.secrets.Set(ctx, common.SessionTokenKey, token)
	}
	if err != nil {
		return fmt.Errorf("persist session token: %w", err)
	}

	s.mu.Lock()
	s.state.SessionToken = token
	s.mu.Unlock()
	return nil
}

// Logout deletes the persisted credential and resets memory. Calling it
// while logged out is fine. Memory is reset even if the delete fails; the
// failure is still returned.
func (s *Store) Logout(ctx context.Context) error {
	err := s.secrets.Delete(ctx, common.SessionTokenKey)

	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

// Reconcile re-reads the persisted credential and drops the in-memory
// session when it has disappeared, e.g. after the gateway deleted it on a
// 401. It reports whether the session is still authenticated.
func (s *Store) Reconcile(ctx context.Context) (bool, error) {
	token, ok, err := s.secrets.Get(ctx, common.SessionTokenKey)
	if err != nil {
		return false, fmt.Errorf("read session token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok || token == "" {
		s.state = State{}
		return false, nil
	}
	s.state.SessionToken = token
	return s.state.IsAuthenticated, nil
}
