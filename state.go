package cel

// EvalState is the optional per-evaluation sidecar keyed by AST node id,
// per spec.md §3: "cleared by reset(); only written when trackState or
// exhaustiveEval decorators are installed." Not safe for concurrent
// mutation — owned by exactly one eval call (spec.md §5).
type EvalState struct {
	values map[int64]Value
}

// NewEvalState returns an empty state sidecar.
func NewEvalState() *EvalState {
	return &EvalState{values: make(map[int64]Value)}
}

// SetValue records v as the result of node id.
func (s *EvalState) SetValue(id int64, v Value) { s.values[id] = v }

// Value returns the recorded result for id, if any.
func (s *EvalState) Value(id int64) (Value, bool) {
	v, ok := s.values[id]
	return v, ok
}

// IDs returns every node id with a recorded value, in no particular
// order.
func (s *EvalState) IDs() []int64 {
	ids := make([]int64, 0, len(s.values))
	for id := range s.values {
		ids = append(ids, id)
	}
	return ids
}

// Reset clears every recorded value without reallocating the backing map.
func (s *EvalState) Reset() {
	for k := range s.values {
		delete(s.values, k)
	}
}
