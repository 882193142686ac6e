package auth

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStoreReplaceAndClear(t *testing.T) {
	t.Parallel()

	store := NewStore()
	if store.Current() != nil {
		t.Fatal("new store should be empty")
	}

	first := &Credential{Method: MethodOAuth, AccessToken: "A1", RefreshToken: "R1"}
	store.Replace(first)
	if got := store.Current(); got != first {
		t.Fatalf("Current() = %+v, want the installed credential", got)
	}

	second := &Credential{Method: MethodOAuth, AccessToken: "A2", RefreshToken: "R2"}
	store.Replace(second)
	if got := store.Current(); got.AccessToken != "A2" || got.RefreshToken != "R2" {
		t.Fatalf("Current() = %+v, want A2/R2", got)
	}

	store.Clear()
	if store.Current() != nil {
		t.Fatal("Clear() should drop the credential")
	}
}

// Readers must only ever observe matched access/refresh generations: the
// replacement is one atomic assignment, never a field-by-field update.
func TestStoreReplaceIsAtomic(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Replace(&Credential{Method: MethodOAuth, AccessToken: "A0", RefreshToken: "R0"})

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 500; i++ {
			store.Replace(&Credential{
				Method:       MethodOAuth,
				AccessToken:  fmt.Sprintf("A%d", i),
				RefreshToken: fmt.Sprintf("R%d", i),
			})
		}
		close(done)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				cred := store.Current()
				if cred == nil {
					t.Error("credential slot went nil during replacement")
					return
				}
				if cred.AccessToken[1:] != cred.RefreshToken[1:] {
					t.Errorf("torn credential observed: %s / %s", cred.AccessToken, cred.RefreshToken)
					return
				}
			}
		}()
	}

	waitTimeout(t, &wg, 10*time.Second)
}

func waitTimeout(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(timeout):
		t.Fatal("timed out waiting for goroutines")
	}
}
