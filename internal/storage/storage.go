package storage

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"
)

// Well-known slots. These mirror the keys the embedding page used before the
// gateway owned session state, so exported session dumps stay compatible.
const (
	KeySessionID            = "chat_session"
	KeyLanguage             = "preferred_language"
	KeyLastOrder            = "last_confirmed_order"
	KeySuggestionsDismissed = "suggestions_dismissed"
)

// Store is a key-value store scoped to a single chat session.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// MemoryStore is the in-memory Store used for live sessions.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

const sessionIDPrefix = "web"

const sessionSuffixLength = 9

const sessionSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewSessionID mints an opaque session identifier: prefix, millisecond
// timestamp and a short random suffix. The id is the only correlation key
// sent to the conversational backend.
func NewSessionID() string {
	return fmt.Sprintf("%s_%d_%s", sessionIDPrefix, time.Now().UnixMilli(), randomSuffix(sessionSuffixLength))
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// constant suffix rather than aborting session creation.
		return "000000000"[:n]
	}
	for i, b := range buf {
		buf[i] = sessionSuffixAlphabet[int(b)%len(sessionSuffixAlphabet)]
	}
	return string(buf)
}
