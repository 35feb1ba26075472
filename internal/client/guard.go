package client

import "strings"

// protectedPrefixes is the fixed set of paths that require a session.
var protectedPrefixes = []string{
	"/dashboard",
	"/vehicles",
	"/control",
	"/profile",
	"/map",
	"/settings",
}

// Guard gates protected paths on the provider's session state. It carries
// no data of its own.
type Guard struct {
	provider *Provider
}

// NewGuard constructs a route guard over the session provider.
func NewGuard(p *Provider) *Guard { return &Guard{provider: p} }

// Protected reports whether the path belongs to the protected set.
func Protected(path string) bool {
	for _, p := range protectedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Resolve returns the path the navigation should actually land on. An
// unauthenticated visit to a protected path redirects to login; while the
// provider is still loading no redirect happens.
func (g *Guard) Resolve(path string) (target string, redirected bool) {
	if !Protected(path) {
		return path, false
	}
	if g.provider.Loading() {
		return path, false
	}
	if g.provider.Session() == nil {
		return PathLogin, true
	}
	return path, false
}
