package cel

import "strings"

// Activation maps identifier names to values for one eval call, per
// spec.md §4.3/§6 ("resolve(name) -> value | missing; parent() ->
// activation | none"). Implementations are read-only during eval;
// comprehensions layer a child frame per iteration (see interpretable.go).
type Activation interface {
	// ResolveName looks up name in this frame only (no parent walk).
	ResolveName(name string) (Value, bool)
	// Parent returns the enclosing activation, or nil at the root.
	Parent() Activation
}

// UnknownPatterns is implemented by a partial activation: one whose
// input is deliberately incomplete, per spec.md §4.3 "Partial inputs".
type UnknownPatterns interface {
	// Matches reports whether the qualifier path (base name followed by
	// the field names and string constant keys walked so far) matches
	// one of the activation's declared unknown patterns.
	Matches(path []string) bool
}

// mapActivation is the common leaf implementation: a single name->Value
// table with an optional parent, mirroring the teacher's Env{parent,
// table} frame (interpreter.go) generalized from a mutable scripting
// scope to a read-only eval frame.
type mapActivation struct {
	parent Activation
	table  map[string]Value
}

// NewActivation builds a root activation from a flat binding table.
func NewActivation(bindings map[string]Value) Activation {
	return &mapActivation{table: bindings}
}

// NewChildActivation layers a fresh frame in front of parent, used by
// comprehensions to bind the loop/accumulator variables per iteration
// without mutating the enclosing frame.
func NewChildActivation(parent Activation, bindings map[string]Value) Activation {
	return &mapActivation{parent: parent, table: bindings}
}

func (a *mapActivation) ResolveName(name string) (Value, bool) {
	v, ok := a.table[name]
	return v, ok
}
func (a *mapActivation) Parent() Activation { return a.parent }

// partialActivation decorates an Activation with unknown-attribute
// patterns (spec.md §4.3).
type partialActivation struct {
	Activation
	patterns []AttributePattern
}

// AttributePattern is one partial-input unknown declaration: a base
// identifier name plus a qualifier sequence, where a nil qualifier
// element is a wildcard matching any concrete key at that position.
// Only string elements match a concrete key; any other element type
// (such as an int64 list index) never matches.
type AttributePattern struct {
	Name        string
	Qualifiers  []interface{} // string or nil (wildcard)
}

// NewPartialActivation wraps base with a set of unknown patterns.
func NewPartialActivation(base Activation, patterns ...AttributePattern) Activation {
	return &partialActivation{Activation: base, patterns: patterns}
}

func (p *partialActivation) Matches(path []string) bool {
	if len(path) == 0 {
		return false
	}
	for _, pat := range p.patterns {
		if pat.Name != path[0] {
			continue
		}
		if matchQualifiers(pat.Qualifiers, path[1:]) {
			return true
		}
	}
	return false
}

func matchQualifiers(pattern []interface{}, path []string) bool {
	if len(pattern) > len(path) {
		return false
	}
	for i, q := range pattern {
		if q == nil {
			continue // wildcard
		}
		if s, ok := q.(string); ok && s == path[i] {
			continue
		}
		return false
	}
	return true
}

// unknownPatternsOf walks the activation chain looking for the nearest
// UnknownPatterns implementation (a partial activation may be layered
// anywhere in the parent chain, not only at the root).
func unknownPatternsOf(act Activation) UnknownPatterns {
	for a := act; a != nil; a = a.Parent() {
		if up, ok := a.(UnknownPatterns); ok {
			return up
		}
	}
	return nil
}

// namespacedCandidates computes the candidate name list for a reference
// under a container, per spec.md §4.3: for container "a.b.c" and
// reference "x.y", candidates are "a.b.c.x.y", "a.b.x.y", "a.x.y", "x.y"
// — longest prefix first, frozen at plan time (see attributes.go).
func namespacedCandidates(container, reference string) []string {
	if container == "" {
		return []string{reference}
	}
	parts := strings.Split(container, ".")
	candidates := make([]string, 0, len(parts)+1)
	for i := len(parts); i > 0; i-- {
		candidates = append(candidates, strings.Join(parts[:i], ".")+"."+reference)
	}
	candidates = append(candidates, reference)
	return candidates
}

// resolveNamespaced walks an activation's frame chain for the first
// candidate name that binds anywhere in the chain, returning it and the
// frame it bound in. Candidates are tried outermost-longest first, each
// one walked up the full parent chain before trying the next —
// preserving "longest prefix that binds wins" even when a shorter
// candidate is merely shadowed in an inner frame.
func resolveNamespaced(act Activation, candidates []string) (Value, bool) {
	for _, name := range candidates {
		for a := act; a != nil; a = a.Parent() {
			if v, ok := a.ResolveName(name); ok {
				return v, true
			}
		}
	}
	return nil, false
}
