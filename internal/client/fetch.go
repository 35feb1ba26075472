package client

import "sync"

// Fetcher tracks a per-screen fetch generation. A screen bumps the
// generation on every mount (and on unmount); a completion whose token no
// longer matches the latest generation is stale and must be dropped, so a
// late response can never update state for a view that is gone.
type Fetcher struct {
	mu  sync.Mutex
	gen uint64
}

// FetchToken identifies one started fetch.
type FetchToken struct {
	f   *Fetcher
	gen uint64
}

// Begin starts a new fetch generation and invalidates all previous tokens.
func (f *Fetcher) Begin() FetchToken {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	return FetchToken{f: f, gen: f.gen}
}

// Invalidate drops all outstanding tokens, as on screen unmount.
func (f *Fetcher) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
}

// Live reports whether the token still belongs to the latest generation.
func (t FetchToken) Live() bool {
	if t.f == nil {
		return false
	}
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	return t.gen == t.f.gen
}
