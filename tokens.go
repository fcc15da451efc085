package postgate

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"io"
	mathrand "math/rand/v2"
	"os"
	"time"
)

// tokenOption is the options-store key holding the full token set.
const tokenOption = "postgate_tokens"

// tokenBytes is the entropy per token; hex-encoded to 64 characters.
const tokenBytes = 32

// TokenStore owns the set of valid bearer tokens, persisted as a single
// JSON array under one option key. Add and Remove read the whole set and
// write it back, so concurrent mutations can lose updates; callers that
// need stronger guarantees must serialize access themselves.
type TokenStore struct {
	store *Store
}

// NewTokenStore creates a TokenStore backed by the given options store.
func NewTokenStore(s *Store) *TokenStore {
	return &TokenStore{store: s}
}

// List returns the current tokens in insertion order, empty if none
// have been generated yet.
func (t *TokenStore) List() ([]string, error) {
	raw, err := t.store.Get(tokenOption, "[]")
	if err != nil {
		return nil, err
	}
	var tokens []string
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Add appends token to the set and persists the full set. Duplicates
// are kept; they behave identically on lookup.
func (t *TokenStore) Add(token string) error {
	tokens, err := t.List()
	if err != nil {
		return err
	}
	return t.save(append(tokens, token))
}

// Remove drops every entry exactly equal to token and persists the full
// set. Removing a non-member is a no-op.
func (t *TokenStore) Remove(token string) error {
	tokens, err := t.List()
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(tokens))
	for _, v := range tokens {
		if v != token {
			kept = append(kept, v)
		}
	}
	return t.save(kept)
}

// Contains reports whether token is present in the set. The comparison
// is exact and case-sensitive.
func (t *TokenStore) Contains(token string) (bool, error) {
	tokens, err := t.List()
	if err != nil {
		return false, err
	}
	for _, v := range tokens {
		if v == token {
			return true, nil
		}
	}
	return false, nil
}

func (t *TokenStore) save(tokens []string) error {
	if tokens == nil {
		tokens = []string{}
	}
	raw, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return t.store.Set(tokenOption, string(raw))
}

// GenerateToken produces a 64-character hex token from 32 random bytes.
// It prefers crypto/rand, falls back to reading /dev/urandom directly,
// and as a last resort derives a pseudo-random token seeded from the
// clock and process id. The result is never empty and never
// zero-entropy. Persisting the token is the caller's job.
func GenerateToken() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err == nil {
		return hex.EncodeToString(b)
	}
	if f, err := os.Open("/dev/urandom"); err == nil {
		defer f.Close()
		if _, err := io.ReadFull(f, b); err == nil {
			return hex.EncodeToString(b)
		}
	}
	return pseudoToken()
}

// pseudoToken is the last-resort generator for platforms where no
// secure source is readable. Not cryptographically strong.
func pseudoToken() string {
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[0:], uint64(time.Now().UnixNano()))
	binary.LittleEndian.PutUint64(seed[8:], uint64(os.Getpid()))
	r := mathrand.NewChaCha8(seed)
	b := make([]byte, tokenBytes)
	_, _ = r.Read(b)
	return hex.EncodeToString(b)
}
