package colfmt

import "sync"

// FallbackResolver resolves the locales to try when a locale has no entry.
type FallbackResolver interface {
	Resolve(locale string) []string
}

// StaticFallbackResolver holds explicitly configured fallback chains. It never
// derives parents from the locale tag itself.
type StaticFallbackResolver struct {
	mu     sync.RWMutex
	chains map[string][]string
}

var _ FallbackResolver = &StaticFallbackResolver{}

func NewStaticFallbackResolver() *StaticFallbackResolver {
	return &StaticFallbackResolver{chains: make(map[string][]string)}
}

// Set replaces the chain for locale. Duplicates and self references are dropped.
// The "*" locale applies to every locale without its own chain.
func (s *StaticFallbackResolver) Set(locale string, fallbacks ...string) {
	if s == nil {
		return
	}
	key := locale
	if key != wildcardLocale {
		key = NormalizeLocale(locale)
	}
	if key == "" {
		return
	}

	seen := map[string]struct{}{key: {}}
	chain := make([]string, 0, len(fallbacks))
	for _, candidate := range fallbacks {
		normalized := NormalizeLocale(candidate)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		chain = append(chain, normalized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chains == nil {
		s.chains = make(map[string][]string)
	}
	if len(chain) == 0 {
		delete(s.chains, key)
		return
	}
	s.chains[key] = chain
}

func (s *StaticFallbackResolver) Resolve(locale string) []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain, ok := s.chains[NormalizeLocale(locale)]
	if !ok {
		chain, ok = s.chains[wildcardLocale]
	}
	if !ok || len(chain) == 0 {
		return nil
	}
	out := make([]string, len(chain))
	copy(out, chain)
	return out
}

func (s *StaticFallbackResolver) has(locale string) bool {
	key := locale
	if key != wildcardLocale {
		key = NormalizeLocale(locale)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.chains[key]
	return ok
}

const wildcardLocale = "*"
