package auth

import "sync/atomic"

// Store is the single mutable slot holding the active credential for one
// client instance. Replacement is one atomic pointer store: a reader sees
// either the whole previous credential or the whole next one, never a mix.
//
// The store does not serialize concurrent refresh attempts; redundant
// refreshes are harmless and deduplication belongs to the layer issuing
// requests.
type Store struct {
	current atomic.Pointer[Credential]
}

// NewStore returns an empty credential slot.
func NewStore() *Store {
	return &Store{}
}

// Current returns the active credential, or nil when signed out.
func (s *Store) Current() *Credential {
	if s == nil {
		return nil
	}
	return s.current.Load()
}

// Replace installs cred as the active credential, discarding the previous one.
func (s *Store) Replace(cred *Credential) {
	s.current.Store(cred)
}

// Clear drops the active credential.
func (s *Store) Clear() {
	s.current.Store(nil)
}
