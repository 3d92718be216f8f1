package hierarchy

import "sort"

// CrossingWorkspace holds reusable buffers for repeated [CountCrossings]
// calls, avoiding per-call allocation in the heuristic and hybrid solvers'
// inner loops. The zero value is usable; [NewCrossingWorkspace] merely
// preallocates for a known edge count.
type CrossingWorkspace struct {
	fenwick []int
	events  []crossingEvent
}

// NewCrossingWorkspace preallocates buffers for graphs with up to
// maxEdges bottom edges.
func NewCrossingWorkspace(maxEdges int) *CrossingWorkspace {
	return &CrossingWorkspace{
		fenwick: make([]int, maxEdges+2),
		events:  make([]crossingEvent, 0, 2*maxEdges),
	}
}

type crossingEvent struct {
	pos     int
	isClose bool
	edge    int
}

// CountCrossings counts the number of bottom-edge pairs that cross when
// nodes are placed at the positions given by pos. Two edges {u1,v1} and
// {u2,v2} cross iff, writing a<b and c<d for their position-sorted
// endpoints, a<c<b<d or c<a<d<b.
//
// CountCrossings runs in O(E log E) time using a Fenwick tree swept
// left to right over opening/closing events, a strictly better bound
// than the O(E^2) pairwise check a brute-force count would require for
// the same definition (see [BruteCountCrossings], kept for testing).
func CountCrossings(pos map[string]int, edges []Edge) int {
	return NewCrossingWorkspace(len(edges)).CountCrossings(pos, edges)
}

// CountCrossings is the workspace-reusing counterpart of the package-level
// [CountCrossings] function.
func (ws *CrossingWorkspace) CountCrossings(pos map[string]int, edges []Edge) int {
	n := len(edges)
	if n == 0 {
		return 0
	}

	if cap(ws.fenwick) < n+2 {
		ws.fenwick = make([]int, n+2)
	} else {
		ws.fenwick = ws.fenwick[:n+2]
		for i := range ws.fenwick {
			ws.fenwick[i] = 0
		}
	}
	if cap(ws.events) < 2*n {
		ws.events = make([]crossingEvent, 0, 2*n)
	} else {
		ws.events = ws.events[:0]
	}

	for i, e := range edges {
		a, b := pos[e.U], pos[e.V]
		if a > b {
			a, b = b, a
		}
		ws.events = append(ws.events,
			crossingEvent{pos: a, isClose: false, edge: i},
			crossingEvent{pos: b, isClose: true, edge: i},
		)
	}

	// other returns the position of an event's edge's opposite endpoint.
	other := func(ev crossingEvent) int {
		a, b := pos[edges[ev.edge].U], pos[edges[ev.edge].V]
		if ev.isClose {
			return min(a, b)
		}
		return max(a, b)
	}
	sort.Slice(ws.events, func(i, j int) bool {
		ei, ej := ws.events[i], ws.events[j]
		if ei.pos != ej.pos {
			return ei.pos < ej.pos
		}
		// Closes before opens at the same position: a closing edge whose
		// endpoint coincides with another edge's opening endpoint does not
		// interleave with it.
		if ei.isClose != ej.isClose {
			return ei.isClose
		}
		// Edges sharing this endpoint do not cross either: open the longer
		// edge first and close the later-opened edge first, so neither is
		// counted against the other.
		if oi, oj := other(ei), other(ej); oi != oj {
			return oi > oj
		}
		if ei.isClose {
			return ei.edge > ej.edge
		}
		return ei.edge < ej.edge
	})

	openOrder := make([]int, n) // edge index -> Fenwick slot
	counter := 0
	crossings := 0

	for _, ev := range ws.events {
		if !ev.isClose {
			counter++
			openOrder[ev.edge] = counter
			ws.fenwickAdd(counter, 1)
			continue
		}
		slot := openOrder[ev.edge]
		crossings += ws.fenwickRangeSum(slot+1, counter)
		ws.fenwickAdd(slot, -1)
	}

	return crossings
}

func (ws *CrossingWorkspace) fenwickAdd(i, delta int) {
	for ; i < len(ws.fenwick); i += i & (-i) {
		ws.fenwick[i] += delta
	}
}

func (ws *CrossingWorkspace) fenwickSum(i int) int {
	s := 0
	for ; i > 0; i -= i & (-i) {
		s += ws.fenwick[i]
	}
	return s
}

func (ws *CrossingWorkspace) fenwickRangeSum(lo, hi int) int {
	if hi < lo {
		return 0
	}
	return ws.fenwickSum(hi) - ws.fenwickSum(lo-1)
}

// BruteCountCrossings counts crossings by explicitly enumerating all edge
// pairs and checking the eight sign patterns of endpoint interleaving. It
// runs in O(E^2) and exists as a cross-check for [CountCrossings] in
// tests; solvers should use the Fenwick-tree version.
func BruteCountCrossings(pos map[string]int, edges []Edge) int {
	n := len(edges)
	crossings := 0
	for i := 0; i < n; i++ {
		a, b := pos[edges[i].U], pos[edges[i].V]
		if a > b {
			a, b = b, a
		}
		for j := i + 1; j < n; j++ {
			c, d := pos[edges[j].U], pos[edges[j].V]
			if c > d {
				c, d = d, c
			}
			if (a < c && c < b && b < d) || (c < a && a < d && d < b) {
				crossings++
			}
		}
	}
	return crossings
}

// IsPlanar reports whether the given top edges have zero crossings under
// pos - i.e. whether the tree can be drawn on the top page without
// crossings for this order. By invariant I2, this is equivalent to every
// cluster's descendants being contiguous in pos.
func IsPlanar(pos map[string]int, topEdges []Edge) bool {
	return CountCrossings(pos, topEdges) == 0
}
