package layout

import (
	"math"
	"sort"

	"github.com/hrygo/vaultview/graph"
)

// SpringConfig tunes the force simulation. The defaults follow the usual
// d3-force parameterization.
type SpringConfig struct {
	RepulsionStrength float64 `json:"repulsion_strength"`
	LinkDistance      float64 `json:"link_distance"`
	LinkStrength      float64 `json:"link_strength"`
	// RigidLinks switches the link force from a velocity spring to a
	// direct positional correction applied after integration. The rigid
	// variant cannot be damped away by velocity decay.
	RigidLinks        bool    `json:"rigid_links"`
	CollisionStrength float64 `json:"collision_strength"`
	CenterStrength    float64 `json:"center_strength"`
	VelocityDecay     float64 `json:"velocity_decay"`
	AlphaMin          float64 `json:"alpha_min"`
	AlphaDecay        float64 `json:"alpha_decay"`
}

// DefaultSpringConfig returns the stock tuning.
func DefaultSpringConfig() SpringConfig {
	return SpringConfig{
		RepulsionStrength: 2000,
		LinkDistance:      60,
		LinkStrength:      0.1,
		CollisionStrength: 0.7,
		CenterStrength:    0.05,
		VelocityDecay:     0.4,
		AlphaMin:          0.001,
		AlphaDecay:        0.0228,
	}
}

// Spring is the force-simulation engine. Each tick applies repulsion, link
// correction, collision resolution and centering, then integrates velocity
// into position and cools alpha geometrically toward AlphaMin.
type Spring struct {
	cfg   SpringConfig
	g     *graph.GraphData
	nodes []*graph.GraphNode // stable iteration order within a run
	alpha float64
}

// NewSpring creates a spring engine with the given tuning.
func NewSpring(cfg SpringConfig) *Spring {
	if cfg.AlphaMin <= 0 {
		cfg.AlphaMin = 0.001
	}
	if cfg.AlphaDecay <= 0 {
		cfg.AlphaDecay = 0.0228
	}
	return &Spring{cfg: cfg, alpha: 1.0}
}

// SetGraphData swaps the simulated graph and reheats. Node positions carry
// whatever the graph already holds; preservePositions only controls whether
// a future seeding strategy may scramble them, and the spring engine never
// re-seeds either way.
func (s *Spring) SetGraphData(g *graph.GraphData, preservePositions bool) {
	s.g = g
	s.nodes = s.nodes[:0]
	if g != nil {
		for _, node := range g.Nodes {
			s.nodes = append(s.nodes, node)
		}
		sort.Slice(s.nodes, func(i, j int) bool { return s.nodes[i].ID < s.nodes[j].ID })
		if !preservePositions {
			for _, node := range s.nodes {
				node.VX, node.VY = 0, 0
			}
		}
	}
	s.alpha = 1.0
}

// IsRunning reports whether the simulation is still settling.
func (s *Spring) IsRunning() bool {
	return s.alpha > s.cfg.AlphaMin
}

// Reheat resets alpha to full energy.
func (s *Spring) Reheat() {
	s.alpha = 1.0
}

// ReheatTo resets alpha to the given value, clamped to [AlphaMin, 1].
func (s *Spring) ReheatTo(alpha float64) {
	s.alpha = math.Min(1.0, math.Max(s.cfg.AlphaMin, alpha))
}

// Alpha exposes the current cooling value.
func (s *Spring) Alpha() float64 {
	return s.alpha
}

// Tick advances the simulation one frame. Converged engines no-op. Pinned
// and dragged nodes exert forces but receive neither velocity nor movement.
func (s *Spring) Tick() {
	if s.g == nil || len(s.nodes) == 0 || !s.IsRunning() {
		return
	}

	s.applyRepulsion()
	if !s.cfg.RigidLinks {
		s.applyLinkSprings()
	}
	s.applyCollisions()
	s.applyCentering()
	s.integrate()
	if s.cfg.RigidLinks {
		s.applyRigidLinks()
	}

	// Exponential cooling toward AlphaMin.
	s.alpha += (s.cfg.AlphaMin - s.alpha) * s.cfg.AlphaDecay
}

func (s *Spring) applyRepulsion() {
	for i := 0; i < len(s.nodes); i++ {
		for j := i + 1; j < len(s.nodes); j++ {
			a, b := s.nodes[i], s.nodes[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			dist := math.Hypot(dx, dy)
			if dist < 1 {
				dist = 1
			}
			force := s.cfg.RepulsionStrength / (dist * dist)
			fx, fy := dx/dist*force, dy/dist*force
			if free(a) {
				a.VX -= fx
				a.VY -= fy
			}
			if free(b) {
				b.VX += fx
				b.VY += fy
			}
		}
	}
}

func (s *Spring) applyLinkSprings() {
	for _, edge := range s.g.Edges {
		source, target := s.g.Nodes[edge.Source], s.g.Nodes[edge.Target]
		if source == nil || target == nil {
			continue
		}
		dx, dy := target.X-source.X, target.Y-source.Y
		dist := math.Hypot(dx, dy)
		if dist < 1 {
			dist = 1
		}
		displacement := (dist - s.cfg.LinkDistance) * s.cfg.LinkStrength
		fx, fy := dx/dist*displacement, dy/dist*displacement
		if free(source) {
			source.VX += fx
			source.VY += fy
		}
		if free(target) {
			target.VX -= fx
			target.VY -= fy
		}
	}
}

// applyRigidLinks corrects positions directly, splitting the displacement
// evenly between both endpoints. Used when link rigidity must survive
// velocity decay.
func (s *Spring) applyRigidLinks() {
	for _, edge := range s.g.Edges {
		source, target := s.g.Nodes[edge.Source], s.g.Nodes[edge.Target]
		if source == nil || target == nil {
			continue
		}
		dx, dy := target.X-source.X, target.Y-source.Y
		dist := math.Hypot(dx, dy)
		if dist < 1 {
			dist = 1
		}
		correction := (dist - s.cfg.LinkDistance) / 2
		fx, fy := dx/dist*correction, dy/dist*correction
		if free(source) {
			source.X += fx
			source.Y += fy
		}
		if free(target) {
			target.X -= fx
			target.Y -= fy
		}
	}
}

func (s *Spring) applyCollisions() {
	for i := 0; i < len(s.nodes); i++ {
		for j := i + 1; j < len(s.nodes); j++ {
			a, b := s.nodes[i], s.nodes[j]
			minDist := a.Radius(0) + b.Radius(0)
			dx, dy := b.X-a.X, b.Y-a.Y
			dist := math.Hypot(dx, dy)
			if dist >= minDist {
				continue
			}
			if dist < 1 {
				dist = 1
			}
			push := (minDist - dist) / 2 * s.cfg.CollisionStrength
			fx, fy := dx/dist*push, dy/dist*push
			if free(a) {
				a.X -= fx
				a.Y -= fy
			}
			if free(b) {
				b.X += fx
				b.Y += fy
			}
		}
	}
}

func (s *Spring) applyCentering() {
	var cx, cy float64
	for _, node := range s.nodes {
		cx += node.X
		cy += node.Y
	}
	cx /= float64(len(s.nodes))
	cy /= float64(len(s.nodes))
	for _, node := range s.nodes {
		if !free(node) {
			continue
		}
		node.VX += (cx - node.X) * s.cfg.CenterStrength
		node.VY += (cy - node.Y) * s.cfg.CenterStrength
	}
}

func (s *Spring) integrate() {
	decay := 1 - s.cfg.VelocityDecay
	for _, node := range s.nodes {
		if !free(node) {
			node.VX, node.VY = 0, 0
			continue
		}
		node.VX *= decay
		node.VY *= decay
		node.X += node.VX * s.alpha
		node.Y += node.VY * s.alpha
	}
}
