package cel

import "strings"

// qualifierKind discriminates the three qualifier shapes spec.md §4.3
// names: field name, constant key, or nested dynamic attribute.
type qualifierKind int

const (
	qualField qualifierKind = iota
	qualConst
	qualDynamic
)

// qualifier is one step of an attribute's qualifier chain.
type qualifier struct {
	kind     qualifierKind
	name     string      // qualField
	constKey Value       // qualConst (bool/int/uint/string key or list index)
	dynamic  interpretable // qualDynamic: re-evaluated per step against the active frame
	testOnly bool        // true for the final qualifier of a has() expression
}

func (q qualifier) pathSegment(act Activation) (string, bool) {
	switch q.kind {
	case qualField:
		return q.name, true
	case qualConst:
		if s, ok := q.constKey.(String); ok {
			return string(s), true
		}
		return "", false
	default:
		return "", false
	}
}

// namespacedAttribute is a fully-merged attribute: a frozen candidate
// name list (spec.md §4.3's "computed once at plan time") plus a
// qualifier chain accumulated by merging nested Select nodes during
// planning (see planner.go's mergeAttribute).
type namespacedAttribute struct {
	candidates []string
	quals      []qualifier
}

// newIdentAttribute builds the leaf attribute for a bare identifier.
func newIdentAttribute(container, name string) *namespacedAttribute {
	return &namespacedAttribute{candidates: namespacedCandidates(container, name)}
}

// addQualifier returns a copy of a with q appended, used by the planner
// when lowering Select/Index onto an existing attribute (subsumption-
// enabling merge, spec.md §4.5).
func (a *namespacedAttribute) addQualifier(q qualifier) *namespacedAttribute {
	quals := make([]qualifier, len(a.quals)+1)
	copy(quals, a.quals)
	quals[len(a.quals)] = q
	return &namespacedAttribute{candidates: a.candidates, quals: quals}
}

// resolve implements the full two-pass lookup of spec.md §4.3: namespaced
// candidate search with subsumption, then the qualifier walk, including
// unknown-pattern matching at each step. id is the originating AST node
// id, attached to any unknown value this resolution produces (spec.md
// §4.3: "evaluation yields an unknown value whose payload is the matched
// AST node id").
//
// Subsumption ("if both a.b.c and a.b are bound, the longer path wins")
// is implemented by trying to bind progressively more of the leading
// field-qualifier chain as part of the dotted name itself: for
// attribute "a" with qualifiers [.b, .c], the absorbed-name candidates
// are "a.b.c", then "a.b", then "a" (each combined with every container
// candidate, since container prefixing applies to the base identifier).
// Only a contiguous leading run of field qualifiers can be absorbed; a
// constant-key or dynamic qualifier ends the run.
func (a *namespacedAttribute) resolve(act Activation, id int64) Value {
	maxAbsorb := 0
	for _, q := range a.quals {
		if q.kind != qualField {
			break
		}
		maxAbsorb++
	}
	refName := a.candidates[len(a.candidates)-1]
	for absorb := maxAbsorb; absorb >= 0; absorb-- {
		var suffix strings.Builder
		for i := 0; i < absorb; i++ {
			suffix.WriteByte('.')
			suffix.WriteString(a.quals[i].name)
		}
		for _, cand := range a.candidates {
			full := cand + suffix.String()
			if v, ok := resolveNamespaced(act, []string{full}); ok {
				if isErrorOrUnknown(v) {
					return v
				}
				path := append([]string{refName}, segmentNames(a.quals[:absorb])...)
				return applyQualifiers(act, v, path, a.quals[absorb:], id)
			}
		}
	}
	return NewNoSuchAttributeError(refName)
}

// segmentNames extracts the field names of a leading field-qualifier
// run, for unknown-pattern path tracking.
func segmentNames(quals []qualifier) []string {
	names := make([]string, 0, len(quals))
	for _, q := range quals {
		names = append(names, q.name)
	}
	return names
}

// applyQualifiers walks q against base, honoring unknown patterns and
// error/unknown short-circuiting at each step (spec.md §4.3: "Each step:
// look up, apply, propagate unknown/error"). id identifies the
// originating attribute node, attached to any unknown produced here.
func applyQualifiers(act Activation, base Value, path []string, quals []qualifier, id int64) Value {
	cur := base
	curPath := append([]string{}, path...)
	for i, q := range quals {
		if isErrorOrUnknown(cur) {
			return cur
		}
		if seg, ok := q.pathSegment(act); ok {
			curPath = append(curPath, seg)
			if up := unknownPatternsOf(act); up != nil && up.Matches(curPath) {
				return NewUnknown(id)
			}
		}
		next, testResult := applyOneQualifier(cur, q, act)
		if q.testOnly && i == len(quals)-1 {
			return testResult
		}
		cur = next
	}
	return cur
}

// applyOneQualifier applies a single qualifier to base, returning the
// selected value and, separately, the has()-test result (only meaningful
// when q.testOnly is set on the final qualifier).
func applyOneQualifier(base Value, q qualifier, act Activation) (Value, Value) {
	switch q.kind {
	case qualField:
		if ft, ok := base.(FieldTester); q.testOnly && ok {
			return nil, ft.IsSet(q.name)
		}
		idx, ok := base.(Indexer)
		if !ok {
			return NewNoSuchOverloadError("select", base), nil
		}
		v := idx.Get(String(q.name))
		if q.testOnly {
			return nil, Bool(!IsError(v))
		}
		return v, nil
	case qualConst:
		idx, ok := base.(Indexer)
		if !ok {
			return NewNoSuchOverloadError("index", base, q.constKey), nil
		}
		v := idx.Get(q.constKey)
		if q.testOnly {
			return nil, Bool(!IsError(v))
		}
		return v, nil
	default: // qualDynamic
		key := q.dynamic.Eval(act)
		if isErrorOrUnknown(key) {
			return key, key
		}
		idx, ok := base.(Indexer)
		if !ok {
			return NewNoSuchOverloadError("index", base, key), nil
		}
		v := idx.Get(key)
		if q.testOnly {
			return nil, Bool(!IsError(v))
		}
		return v, nil
	}
}
