// Package memory provides in-process implementations of the portal's stores,
// used when STORAGE_BACKEND or SESSION_BACKEND is "memory" and in tests.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
)

// SessionStore keeps encoded auth records keyed by session id. Records are kept
// encoded so a corrupt value behaves exactly as it would in Redis.
type SessionStore struct {
	mu      sync.RWMutex
	records map[string][]byte
	now     func() time.Time
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{records: make(map[string][]byte), now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.Expired(s.now()) {
		return errors.New("session is expired")
	}
	data, err := domainauth.EncodeRecord(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records[sess.ID] = data
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.RLock()
	data, ok := s.records[id]
	s.mu.RUnlock()
	if id == "" || !ok {
		return domainauth.Session{}, domainauth.ErrNoSession
	}
	sess, err := domainauth.DecodeRecord(data)
	if err != nil {
		return domainauth.Session{}, err
	}
	if sess.ID != id {
		return domainauth.Session{}, domainauth.ErrCorruptRecord
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.records, id)
	s.mu.Unlock()
	return nil
}

// PutRaw stores data under id as-is, bypassing encoding.
func (s *SessionStore) PutRaw(id string, data []byte) {
	s.mu.Lock()
	s.records[id] = append([]byte(nil), data...)
	s.mu.Unlock()
}

// Has reports whether anything is stored under id.
func (s *SessionStore) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[id]
	return ok
}

// Len returns the number of stored records.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
