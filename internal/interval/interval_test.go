package interval

import "testing"

// Exhaustive check over small bounds: computing the relation with the
// arguments swapped must always yield the opposite relation.
func TestOppositeInvolution(t *testing.T) {
	const n = 6
	for i := 0; i <= n; i++ {
		for j := i; j <= n; j++ {
			for s := 0; s <= n; s++ {
				for e := s; e <= n; e++ {
					r := Compute(i, j, s, e)
					o := Compute(s, e, i, j)
					if r.Opposite() != o {
						t.Fatalf("Compute(%d,%d,%d,%d)=%v but swapped=%v, want %v",
							i, j, s, e, r, o, r.Opposite())
					}
					if r.Opposite().Opposite() != r {
						t.Fatalf("%v: opposite is not an involution", r)
					}
					if r.Dominance().Opposite() != o.Dominance() {
						t.Fatalf("dominance of %v and %v are not opposites", r, o)
					}
				}
			}
		}
	}
}

func TestDominanceEquivalences(t *testing.T) {
	const n = 6
	for i := 0; i <= n; i++ {
		for j := i; j <= n; j++ {
			for s := 0; s <= n; s++ {
				for e := s; e <= n; e++ {
					d := ComputeDominance(i, j, s, e)
					exact := i == s && j == e
					if (d == Exact) != exact {
						t.Fatalf("Compute(%d,%d,%d,%d)=%v, exact=%v", i, j, s, e, d, exact)
					}
					none := j == s || i == e || j < s || e < i
					if (d == None) != none {
						t.Fatalf("Compute(%d,%d,%d,%d)=%v, none=%v", i, j, s, e, d, none)
					}
				}
			}
		}
	}
}

func TestDecisionTable(t *testing.T) {
	tests := []struct {
		name       string
		i, j, s, e int
		want       Relation
	}{
		{"next", 0, 3, 3, 6, Next},
		{"previous", 3, 6, 0, 3, Previous},
		{"after", 0, 2, 4, 6, After},
		{"before", 4, 6, 0, 2, Before},
		{"container", 2, 4, 1, 5, Container},
		{"ahead", 1, 3, 1, 5, Ahead},
		{"behind", 3, 5, 1, 5, Behind},
		{"same", 1, 5, 1, 5, Same},
		{"fragment", 1, 5, 2, 4, Fragment},
		{"start", 1, 5, 1, 3, Start},
		{"end", 1, 5, 3, 5, End},
		{"overflow", 1, 4, 2, 6, Overflow},
		{"underflow", 2, 6, 1, 4, Underflow},
		{"zero length next", 2, 2, 2, 5, Next},
		{"zero length inside", 1, 5, 3, 3, Fragment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.i, tt.j, tt.s, tt.e); got != tt.want {
				t.Errorf("Compute(%d,%d,%d,%d) = %v, want %v", tt.i, tt.j, tt.s, tt.e, got, tt.want)
			}
		})
	}
}

func TestInvalidBoundsPanic(t *testing.T) {
	tests := []struct {
		name       string
		i, j, s, e int
	}{
		{"negative start", -1, 2, 0, 1},
		{"negative second start", 0, 2, -3, 1},
		{"reversed", 4, 2, 0, 1},
		{"reversed second", 0, 2, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Compute(%d,%d,%d,%d) did not panic", tt.i, tt.j, tt.s, tt.e)
				}
			}()
			Compute(tt.i, tt.j, tt.s, tt.e)
		})
	}
}
