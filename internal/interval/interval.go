// internal/interval/interval.go
package interval

import "fmt"

// Relation classifies how the half-open interval [i,j) sits relative to
// the half-open interval [s,e). The names describe the second interval
// from the point of view of the first.
type Relation int

const (
	// Same: both intervals are identical.
	Same Relation = iota
	// Container: the second interval strictly contains the first.
	Container
	// Fragment: the second interval lies strictly inside the first.
	Fragment
	// Ahead: both start together, the second continues past the first.
	Ahead
	// Start: both start together, the second stops before the first.
	Start
	// Behind: both end together, the second starts before the first.
	Behind
	// End: both end together, the second starts after the first.
	End
	// Overflow: the second starts inside the first and ends past it.
	Overflow
	// Underflow: the second starts before the first and ends inside it.
	Underflow
	// Next: the second starts exactly where the first ends.
	Next
	// Previous: the second ends exactly where the first starts.
	Previous
	// After: the second starts past the end of the first.
	After
	// Before: the second ends before the start of the first.
	Before
)

// Dominance is the coarse classification of Relation: how much of the
// first interval the second interval dominates.
type Dominance int

const (
	// Exact: identical intervals.
	Exact Dominance = iota
	// Contain: the second interval takes the first and more.
	Contain
	// Part: the second interval fits inside the first.
	Part
	// Share: the intervals overlap without either containing the other.
	Share
	// None: the intervals are disjoint.
	None
)

var relationNames = map[Relation]string{
	Same:      "SAME",
	Container: "CONTAINER",
	Fragment:  "FRAGMENT",
	Ahead:     "AHEAD",
	Start:     "START",
	Behind:    "BEHIND",
	End:       "END",
	Overflow:  "OVERFLOW",
	Underflow: "UNDERFLOW",
	Next:      "NEXT",
	Previous:  "PREVIOUS",
	After:     "AFTER",
	Before:    "BEFORE",
}

var dominanceNames = map[Dominance]string{
	Exact:   "EXACT",
	Contain: "CONTAIN",
	Part:    "PART",
	Share:   "SHARE",
	None:    "NONE",
}

func (r Relation) String() string {
	return relationNames[r]
}

func (d Dominance) String() string {
	return dominanceNames[d]
}

// Compute classifies [i,j) against [s,e). Two empty intervals at the same
// position are Same; otherwise the first matching row of the decision
// table wins. Each argument must be a valid bound: positions are
// non-negative and an interval never ends before it starts. Invalid bounds
// are a caller bug and panic.
func Compute(i, j, s, e int) Relation {
	check(i, j)
	check(s, e)
	switch {
	case i == j && s == e && i == s:
		return Same
	case j == s:
		return Next
	case i == e:
		return Previous
	case j < s:
		return After
	case e < i:
		return Before
	case s < i && j < e:
		return Container
	case i == s && j < e:
		return Ahead
	case s < i && j == e:
		return Behind
	case i == s && j == e:
		return Same
	case i < s && e < j:
		return Fragment
	case i == s && e < j:
		return Start
	case i < s && j == e:
		return End
	case i < s:
		return Overflow
	default:
		return Underflow
	}
}

// ComputeDominance is Compute collapsed to the coarse lattice.
func ComputeDominance(i, j, s, e int) Dominance {
	return Compute(i, j, s, e).Dominance()
}

func check(i, j int) {
	if i < 0 {
		panic(fmt.Sprintf("interval: negative start %d", i))
	}
	if j < 0 {
		panic(fmt.Sprintf("interval: negative end %d", j))
	}
	if i > j {
		panic(fmt.Sprintf("interval: start %d past end %d", i, j))
	}
}

// Opposite returns the relation seen from the other interval. It is an
// involution: r.Opposite().Opposite() == r.
func (r Relation) Opposite() Relation {
	switch r {
	case Same:
		return Same
	case Container:
		return Fragment
	case Fragment:
		return Container
	case Ahead:
		return Start
	case Start:
		return Ahead
	case Behind:
		return End
	case End:
		return Behind
	case Overflow:
		return Underflow
	case Underflow:
		return Overflow
	case Next:
		return Previous
	case Previous:
		return Next
	case After:
		return Before
	case Before:
		return After
	default:
		panic(fmt.Sprintf("interval: unknown relation %d", int(r)))
	}
}

// Dominance maps a relation onto the coarse lattice. The mapping is total.
func (r Relation) Dominance() Dominance {
	switch r {
	case Same:
		return Exact
	case Container, Ahead, Behind:
		return Contain
	case Fragment, Start, End:
		return Part
	case Overflow, Underflow:
		return Share
	case Next, Previous, After, Before:
		return None
	default:
		panic(fmt.Sprintf("interval: unknown relation %d", int(r)))
	}
}

// Opposite returns the dominance seen from the other interval.
func (d Dominance) Opposite() Dominance {
	switch d {
	case Exact:
		return Exact
	case Contain:
		return Part
	case Part:
		return Contain
	case Share:
		return Share
	case None:
		return None
	default:
		panic(fmt.Sprintf("interval: unknown dominance %d", int(d)))
	}
}
