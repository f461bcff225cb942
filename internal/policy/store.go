package policy

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable is returned by a Source whose backing store cannot be
// reached. Fatal for the request; retry policy belongs to the caller.
var ErrUnavailable = errors.New("policy store unavailable")

// Source provides a consistent rule snapshot for one evaluation run.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Store holds one spending rule per category. Reads during evaluation go
// through a Snapshot, so administrative upserts are never visible mid-run.
type Store struct {
	mu    sync.RWMutex
	rules map[string]Rule
	order []string
}

// NewStore creates a Store seeded with the given rules, preserving order.
func NewStore(rules []Rule) *Store {
	s := &Store{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		s.insert(r)
	}
	return s
}

func (s *Store) insert(r Rule) {
	if _, ok := s.rules[r.Category]; !ok {
		s.order = append(s.order, r.Category)
	}
	s.rules[r.Category] = r
}

// Upsert creates or replaces the rule for a category. Administrative path;
// evaluations already holding a snapshot do not observe the change.
func (s *Store) Upsert(r Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(r)
}

// Replace swaps the entire rule set. Used by config hot-reload.
func (s *Store) Replace(rules []Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = make(map[string]Rule, len(rules))
	s.order = nil
	for _, r := range rules {
		s.insert(r)
	}
}

// GetRule returns the rule for an exact category match, or the fallback
// "Others" rule when the category is not registered.
func (s *Store) GetRule(category string) Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.rules, category)
}

// ListRules returns all rules in insertion order.
func (s *Store) ListRules() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, 0, len(s.order))
	for _, c := range s.order {
		out = append(out, s.rules[c])
	}
	return out
}

// Snapshot takes a consistent read-only view of the store. The snapshot is
// detached: later upserts do not affect it.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules := make(map[string]Rule, len(s.rules))
	for c, r := range s.rules {
		rules[c] = r
	}
	order := make([]string, len(s.order))
	copy(order, s.order)
	return &Snapshot{rules: rules, order: order}, nil
}

// Snapshot is an immutable view of the rule set taken at the start of a run.
type Snapshot struct {
	rules map[string]Rule
	order []string
}

// GetRule returns the rule for an exact category match, or the fallback rule.
func (sn *Snapshot) GetRule(category string) Rule {
	return lookup(sn.rules, category)
}

// Rules returns all rules in the snapshot in insertion order.
func (sn *Snapshot) Rules() []Rule {
	out := make([]Rule, 0, len(sn.order))
	for _, c := range sn.order {
		out = append(out, sn.rules[c])
	}
	return out
}

func lookup(rules map[string]Rule, category string) Rule {
	if r, ok := rules[category]; ok {
		return r
	}
	if r, ok := rules[FallbackCategory]; ok {
		return r
	}
	// Store seeded without an "Others" rule; fall back to the built-in one.
	for _, r := range DefaultRules() {
		if r.Category == FallbackCategory {
			return r
		}
	}
	return Rule{Category: FallbackCategory}
}
