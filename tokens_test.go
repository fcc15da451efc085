package postgate

import (
	"encoding/hex"
	"fmt"
	"sync"
	"testing"
)

func setupTokenStore(t *testing.T) *TokenStore {
	t.Helper()
	return NewTokenStore(setupTestStore(t))
}

func TestTokenStoreEmptyByDefault(t *testing.T) {
	ts := setupTokenStore(t)

	tokens, err := ts.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("List = %v, want empty", tokens)
	}

	ok, err := ts.Contains("anything")
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if ok {
		t.Error("Contains should be false for a never-added token")
	}
}

func TestAddThenContains(t *testing.T) {
	ts := setupTokenStore(t)

	if err := ts.Add("tok-a"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	ok, err := ts.Contains("tok-a")
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if !ok {
		t.Error("Contains should be true after Add")
	}
}

func TestContainsIsExact(t *testing.T) {
	ts := setupTokenStore(t)

	if err := ts.Add("AbCdEf"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	for _, probe := range []string{"abcdef", "ABCDEF", "AbCdE", "AbCdEfG", " AbCdEf"} {
		ok, err := ts.Contains(probe)
		if err != nil {
			t.Fatalf("Contains(%q) failed: %v", probe, err)
		}
		if ok {
			t.Errorf("Contains(%q) should be false, only the exact string matches", probe)
		}
	}
}

func TestRemove(t *testing.T) {
	ts := setupTokenStore(t)

	if err := ts.Add("tok-a"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := ts.Add("tok-b"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := ts.Remove("tok-a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	ok, err := ts.Contains("tok-a")
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if ok {
		t.Error("tok-a should be gone after Remove")
	}

	ok, err = ts.Contains("tok-b")
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if !ok {
		t.Error("tok-b should survive removal of tok-a")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	ts := setupTokenStore(t)

	if err := ts.Add("tok-a"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := ts.Remove("not-a-member"); err != nil {
		t.Fatalf("Remove of non-member should be a no-op, got: %v", err)
	}

	tokens, err := ts.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tokens) != 1 || tokens[0] != "tok-a" {
		t.Errorf("List = %v, want [tok-a]", tokens)
	}
}

func TestRemoveExactMatchOnly(t *testing.T) {
	ts := setupTokenStore(t)

	for _, tok := range []string{"abc", "abcd", "ABC"} {
		if err := ts.Add(tok); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if err := ts.Remove("abc"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	tokens, err := ts.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tokens) != 2 || tokens[0] != "abcd" || tokens[1] != "ABC" {
		t.Errorf("List = %v, want [abcd ABC]", tokens)
	}
}

func TestDuplicatesKeptAndRemovedTogether(t *testing.T) {
	ts := setupTokenStore(t)

	if err := ts.Add("dup"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := ts.Add("dup"); err != nil {
		t.Fatalf("second Add failed: %v", err)
	}

	tokens, err := ts.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tokens) != 2 {
		t.Errorf("List has %d entries, want 2 (duplicates kept)", len(tokens))
	}

	// Remove drops every exactly-equal entry, not just the first.
	if err := ts.Remove("dup"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	ok, err := ts.Contains("dup")
	if err != nil {
		t.Fatalf("Contains failed: %v", err)
	}
	if ok {
		t.Error("all copies should be gone after Remove")
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	ts := setupTokenStore(t)

	want := []string{"first", "second", "third"}
	for _, tok := range want {
		if err := ts.Add(tok); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	tokens, err := ts.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tokens) != len(want) {
		t.Fatalf("List = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, tokens[i], want[i])
		}
	}
}

// The token set is rewritten wholesale on every mutation, so concurrent
// adds may overwrite each other. The only guarantees are that something
// survives and that nothing appears out of thin air.
func TestConcurrentAddsKeepSubset(t *testing.T) {
	ts := setupTokenStore(t)

	attempted := make([]string, 8)
	for i := range attempted {
		attempted[i] = fmt.Sprintf("tok-%d", i)
	}

	var wg sync.WaitGroup
	for _, tok := range attempted {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ts.Add(tok); err != nil {
				t.Errorf("Add(%q) failed: %v", tok, err)
			}
		}()
	}
	wg.Wait()

	tokens, err := ts.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tokens) == 0 {
		t.Fatal("expected at least one token to survive concurrent adds")
	}
	if len(tokens) > len(attempted) {
		t.Errorf("List has %d entries, more than the %d attempted", len(tokens), len(attempted))
	}
	valid := make(map[string]bool, len(attempted))
	for _, tok := range attempted {
		valid[tok] = true
	}
	for _, tok := range tokens {
		if !valid[tok] {
			t.Errorf("unexpected token %q in store", tok)
		}
	}
}

func TestGenerateTokenFormat(t *testing.T) {
	tok := GenerateToken()
	if len(tok) != 64 {
		t.Fatalf("token length = %d, want 64", len(tok))
	}
	if _, err := hex.DecodeString(tok); err != nil {
		t.Errorf("token %q is not valid hex: %v", tok, err)
	}
}

func TestGenerateTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		tok := GenerateToken()
		if seen[tok] {
			t.Fatalf("duplicate token generated: %q", tok)
		}
		seen[tok] = true
	}
}

func TestPseudoTokenFormat(t *testing.T) {
	tok := pseudoToken()
	if len(tok) != 64 {
		t.Fatalf("pseudo token length = %d, want 64", len(tok))
	}
	if _, err := hex.DecodeString(tok); err != nil {
		t.Errorf("pseudo token %q is not valid hex: %v", tok, err)
	}
	if tok == "0000000000000000000000000000000000000000000000000000000000000000" {
		t.Error("pseudo token should not be zero-entropy")
	}
}
