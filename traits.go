package cel

// Trait is a capability bit a Value may advertise. The value algebra (see
// value.go) is a closed set of variants, but the *operations* available on
// a variant are open: adding a variant never requires rewriting an
// operator, only setting the right bits and implementing the matching
// interface below.
type Trait uint32

const (
	TraitAdder Trait = 1 << iota
	TraitSubtractor
	TraitMultiplier
	TraitDivider
	TraitModder
	TraitNegater
	TraitComparer
	TraitIndexer
	TraitContainer
	TraitSizer
	TraitIterable
	TraitMatcher
	TraitReceiver
	TraitFieldTester
)

func (t Trait) Has(bit Trait) bool { return t&bit != 0 }

// Adder implements the `+` overload family.
type Adder interface {
	Add(other Value) Value
}

// Subtractor implements the `-` overload family.
type Subtractor interface {
	Subtract(other Value) Value
}

// Multiplier implements the `*` overload family.
type Multiplier interface {
	Multiply(other Value) Value
}

// Divider implements the `/` overload family.
type Divider interface {
	Divide(other Value) Value
}

// Modder implements the `%` overload family.
type Modder interface {
	Modulo(other Value) Value
}

// Negater implements unary `-`.
type Negater interface {
	Negate() Value
}

// Comparer produces a three-way (-1/0/1) Int, lifted by `<`, `<=`, `>`, `>=`.
type Comparer interface {
	Compare(other Value) Value
}

// Indexer implements `[]` access (list-by-int, map-by-key).
type Indexer interface {
	Get(index Value) Value
}

// Container implements `in` membership (list elements, map keys).
type Container interface {
	Contains(elem Value) Value
}

// Sizer implements size().
type Sizer interface {
	Size() Value
}

// Iterable implements range iteration for comprehensions.
type Iterable interface {
	Iterator() Iterator
}

// Iterator walks an Iterable's elements. HasNext must be checked before
// each Next call; Next is undefined once HasNext returns false.
type Iterator interface {
	HasNext() bool
	Next() Value
}

// Matcher implements string.matches(re).
type Matcher interface {
	Match(pattern Value) Value
}

// Receiver implements member-style calls, e.g. `x.contains(y)`.
type Receiver interface {
	Receive(function, overload string, args []Value) Value
}

// FieldTester backs the has() macro on message/map-shaped values.
type FieldTester interface {
	IsSet(field string) Value
}
