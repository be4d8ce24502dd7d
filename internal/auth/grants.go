package auth

import (
	"fmt"
	"sort"
	"strings"
)

// Grant pairs a resource with an action.
type Grant struct {
	Resource Resource `json:"resource" validate:"required"`
	Action   Action   `json:"action" validate:"required"`
}

// G is a shorthand constructor.
func G(r Resource, a Action) Grant {
	return Grant{Resource: r, Action: a}
}

// String renders the grant as resource:action.
func (g Grant) String() string {
	return string(g.Resource) + ":" + string(g.Action)
}

// ParseGrant parses resource:action. Both parts must be known.
func ParseGrant(s string) (Grant, error) {
	res, act, ok := strings.Cut(s, ":")
	if !ok {
		return Grant{}, fmt.Errorf("%w: %q", ErrInvalidGrant, s)
	}

	r, err := ParseResource(res)
	if err != nil {
		return Grant{}, err
	}

	a, err := ParseAction(act)
	if err != nil {
		return Grant{}, err
	}

	return G(r, a), nil
}

// GrantSet is a set of grants, order is irrelevant.
// The zero value is an empty set ready to read, use NewGrantSet to add grants.
type GrantSet struct {
	m map[Resource]map[Action]struct{}
}

// NewGrantSet builds a set from grants.
func NewGrantSet(grants ...Grant) GrantSet {
	s := GrantSet{m: make(map[Resource]map[Action]struct{})}

	for _, g := range grants {
		s.add(g)
	}

	return s
}

func grantsOf(r Resource, as ...Action) []Grant {
	out := make([]Grant, 0, len(as))
	for _, a := range as {
		out = append(out, G(r, a))
	}

	return out
}

func (s GrantSet) add(g Grant) {
	acts, ok := s.m[g.Resource]
	if !ok {
		acts = make(map[Action]struct{})
		s.m[g.Resource] = acts
	}

	acts[g.Action] = struct{}{}
}

// Has reports whether the set contains resource:action.
func (s GrantSet) Has(r Resource, a Action) bool {
	_, ok := s.m[r][a]

	return ok
}

// HasGrant reports whether g is in the set.
func (s GrantSet) HasGrant(g Grant) bool {
	return s.Has(g.Resource, g.Action)
}

// Actions on r, sorted. Empty for a resource without grants.
func (s GrantSet) Actions(r Resource) []Action {
	out := make([]Action, 0, len(s.m[r]))
	for a := range s.m[r] {
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Resources with at least one grant, sorted.
func (s GrantSet) Resources() []Resource {
	out := make([]Resource, 0, len(s.m))
	for r, acts := range s.m {
		if len(acts) > 0 {
			out = append(out, r)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Len is the number of grants.
func (s GrantSet) Len() int {
	n := 0
	for _, acts := range s.m {
		n += len(acts)
	}

	return n
}

// Slice returns the grants sorted by resource then action.
func (s GrantSet) Slice() []Grant {
	out := make([]Grant, 0, s.Len())
	for _, r := range s.Resources() {
		for _, a := range s.Actions(r) {
			out = append(out, G(r, a))
		}
	}

	return out
}

// Strings returns the grants rendered as resource:action, sorted.
func (s GrantSet) Strings() []string {
	grants := s.Slice()
	out := make([]string, len(grants))

	for i, g := range grants {
		out[i] = g.String()
	}

	return out
}

// Contains reports whether every grant of other is in s.
func (s GrantSet) Contains(other GrantSet) bool {
	for r, acts := range other.m {
		for a := range acts {
			if !s.Has(r, a) {
				return false
			}
		}
	}

	return true
}

// Equal reports set equality.
func (s GrantSet) Equal(other GrantSet) bool {
	return s.Len() == other.Len() && s.Contains(other)
}
