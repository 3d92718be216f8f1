// Package visualize renders a hierarchy graph and an optional computed
// leaf order as a Graphviz DOT diagram, for visual inspection during
// development. This is a debug aid, not a geometric layout engine:
// Graphviz's own layout assigns coordinates, entirely outside this
// module's concern.
package visualize
