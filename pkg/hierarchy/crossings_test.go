package hierarchy

import (
	"math/rand"
	"testing"
)

func TestCountCrossingsMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		n := 4 + rng.Intn(12)
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		rng.Shuffle(n, func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		pos := PosMap(ids)

		edgeCount := 2 + rng.Intn(n)
		edges := make([]Edge, edgeCount)
		for i := range edges {
			u := ids[rng.Intn(n)]
			v := ids[rng.Intn(n)]
			for v == u {
				v = ids[rng.Intn(n)]
			}
			edges[i] = Edge{U: u, V: v}
		}

		got := CountCrossings(pos, edges)
		want := BruteCountCrossings(pos, edges)
		if got != want {
			t.Fatalf("trial %d: CountCrossings=%d BruteCountCrossings=%d edges=%v pos=%v", trial, got, want, edges, pos)
		}
	}
}

func TestCountCrossingsTouchingEndpointsDoNotCross(t *testing.T) {
	pos := PosMap([]string{"a", "b", "c"})
	edges := []Edge{{U: "a", V: "b"}, {U: "b", V: "c"}}

	if got := CountCrossings(pos, edges); got != 0 {
		t.Fatalf("CountCrossings() = %d, want 0 for touching edges", got)
	}
}

func TestCountCrossingsSimplePair(t *testing.T) {
	tests := []struct {
		name  string
		order []string
		edges []Edge
		want  int
	}{
		{
			name:  "interleaved crosses",
			order: []string{"a", "b", "c", "d"},
			edges: []Edge{{U: "a", V: "c"}, {U: "b", V: "d"}},
			want:  1,
		},
		{
			name:  "nested does not cross",
			order: []string{"a", "b", "c", "d"},
			edges: []Edge{{U: "a", V: "d"}, {U: "b", V: "c"}},
			want:  0,
		},
		{
			name:  "disjoint does not cross",
			order: []string{"a", "b", "c", "d"},
			edges: []Edge{{U: "a", V: "b"}, {U: "c", V: "d"}},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := PosMap(tt.order)
			if got := CountCrossings(pos, tt.edges); got != tt.want {
				t.Errorf("CountCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCrossingWorkspaceReuse(t *testing.T) {
	ws := NewCrossingWorkspace(4)
	pos := PosMap([]string{"a", "b", "c", "d"})
	edges := []Edge{{U: "a", V: "c"}, {U: "b", V: "d"}}

	first := ws.CountCrossings(pos, edges)
	second := ws.CountCrossings(pos, edges)
	if first != second || first != 1 {
		t.Fatalf("workspace reuse gave inconsistent results: %d then %d", first, second)
	}
}
