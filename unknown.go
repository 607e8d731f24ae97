package cel

import (
	"reflect"
	"sort"
)

// Unknown is the unknown value variant (spec.md §3/§4.3). Its payload is
// the set of AST node ids whose attribute could not be resolved against
// a partial activation; the set grows by union as unknowns combine
// across an expression tree.
type Unknown struct {
	NodeIDs []int64
}

// NewUnknown builds a single-origin unknown value.
func NewUnknown(nodeID int64) *Unknown { return &Unknown{NodeIDs: []int64{nodeID}} }

func (u *Unknown) Type() *Type   { return UnknownType }
func (u *Unknown) Traits() Trait { return 0 }
func (u *Unknown) String() string {
	return "unknown"
}

// Equal on an unknown always returns the unknown itself (spec.md §3,
// same rule as Error but for unknown).
func (u *Unknown) Equal(Value) Value { return u }

func (u *Unknown) ConvertToType(*Type) Value { return u }
func (u *Unknown) ConvertToNative(reflect.Type) (interface{}, error) {
	return nil, NewTypeConversionError(UnknownType, nil).asGoError()
}

// mergeUnknown unions two unknowns' node-id sets, deduplicated and
// sorted for deterministic downstream comparison (spec.md §8: "Unknown
// propagation... yields an unknown whose payload is the union of input
// unknown ids").
func mergeUnknown(a, b *Unknown) *Unknown {
	seen := make(map[int64]struct{}, len(a.NodeIDs)+len(b.NodeIDs))
	out := make([]int64, 0, len(a.NodeIDs)+len(b.NodeIDs))
	for _, ids := range [][]int64{a.NodeIDs, b.NodeIDs} {
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return &Unknown{NodeIDs: out}
}
