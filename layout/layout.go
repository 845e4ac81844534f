// Package layout positions graph nodes on a 2D plane. Two interchangeable
// engines exist: a spring force simulation and a deterministic golden-angle
// spiral placement. Both tick cooperatively once per animation frame and
// cool toward a converged state; neither is safe to tick concurrently with
// itself or with direct position mutation — a view must set a node's
// Dragging flag before moving it by hand.
package layout

import (
	"github.com/hrygo/vaultview/graph"
)

// Engine is the strategy interface shared by both layouts.
type Engine interface {
	// SetGraphData swaps the graph under simulation. When
	// preservePositions is false the engine re-seeds node placement.
	SetGraphData(g *graph.GraphData, preservePositions bool)
	// Tick advances the simulation one frame, mutating node positions
	// and velocities in place. A converged engine ticks as a no-op.
	Tick()
	// IsRunning reports whether the simulation is still settling.
	IsRunning() bool
	// Reheat resets cooling to full energy.
	Reheat()
	// ReheatTo resets cooling to the given alpha, clamped to [alphaMin, 1].
	ReheatTo(alpha float64)
}

// free reports whether layout may move the node this frame.
func free(n *graph.GraphNode) bool {
	return !n.Pinned && !n.Dragging
}
