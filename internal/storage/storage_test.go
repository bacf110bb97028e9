package storage

import (
	"strings"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Get(KeyLanguage); ok {
		t.Error("Get() on empty store reported a value")
	}

	store.Set(KeyLanguage, "en")
	v, ok := store.Get(KeyLanguage)
	if !ok || v != "en" {
		t.Errorf("Get() = (%q, %v), want (\"en\", true)", v, ok)
	}

	store.Set(KeyLanguage, "ar")
	v, _ = store.Get(KeyLanguage)
	if v != "ar" {
		t.Errorf("Get() after overwrite = %q, want \"ar\"", v)
	}

	store.Remove(KeyLanguage)
	if _, ok := store.Get(KeyLanguage); ok {
		t.Error("Get() after Remove() reported a value")
	}
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()

	if !strings.HasPrefix(id, "web_") {
		t.Errorf("NewSessionID() = %q, want web_ prefix", id)
	}

	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		t.Fatalf("NewSessionID() = %q, want 3 underscore-separated parts", id)
	}
	if len(parts[2]) != sessionSuffixLength {
		t.Errorf("suffix length = %d, want %d", len(parts[2]), sessionSuffixLength)
	}
	for _, r := range parts[2] {
		if !strings.ContainsRune(sessionSuffixAlphabet, r) {
			t.Errorf("suffix contains %q, not in alphabet", r)
		}
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		if seen[id] {
			t.Fatalf("NewSessionID() produced duplicate %q", id)
		}
		seen[id] = true
	}
}
