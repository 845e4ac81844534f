package layout

import (
	"hash/fnv"
	"math"
	"sort"

	"github.com/hrygo/vaultview/graph"
)

// goldenAngle spreads consecutive spiral indices evenly around the circle,
// giving a sunflower packing with uniform areal density.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// SpiralConfig tunes the deterministic spiral layout.
type SpiralConfig struct {
	// MinSeparation is the hard minimum distance the tick enforces
	// between any two free nodes. Spiral ring spacing derives from it.
	MinSeparation float64 `json:"min_separation"`
	// CenterID optionally roots the BFS ordering at a specific node.
	CenterID   string  `json:"center_id"`
	AlphaMin   float64 `json:"alpha_min"`
	AlphaDecay float64 `json:"alpha_decay"`
}

// DefaultSpiralConfig returns the stock tuning.
func DefaultSpiralConfig() SpiralConfig {
	return SpiralConfig{
		MinSeparation: 30,
		AlphaMin:      0.001,
		AlphaDecay:    0.0228,
	}
}

// Spiral places nodes once on a Fermat spiral in BFS order from a root and
// then only enforces minimum separation per tick. Preferred over the spring
// engine for large graphs where stability matters more than organic motion.
type Spiral struct {
	cfg   SpiralConfig
	g     *graph.GraphData
	nodes []*graph.GraphNode
	alpha float64
}

// NewSpiral creates a spiral engine with the given tuning.
func NewSpiral(cfg SpiralConfig) *Spiral {
	if cfg.MinSeparation <= 0 {
		cfg.MinSeparation = 30
	}
	if cfg.AlphaMin <= 0 {
		cfg.AlphaMin = 0.001
	}
	if cfg.AlphaDecay <= 0 {
		cfg.AlphaDecay = 0.0228
	}
	return &Spiral{cfg: cfg, alpha: 1.0}
}

// SetGraphData swaps the graph, seeding spiral positions unless the caller
// asks to preserve them, and reheats.
func (s *Spiral) SetGraphData(g *graph.GraphData, preservePositions bool) {
	s.g = g
	s.nodes = s.nodes[:0]
	if g != nil {
		for _, node := range g.Nodes {
			s.nodes = append(s.nodes, node)
		}
		sort.Slice(s.nodes, func(i, j int) bool { return s.nodes[i].ID < s.nodes[j].ID })
		if !preservePositions {
			s.Seed()
		}
	}
	s.alpha = 1.0
}

// IsRunning reports whether ticking still has cooling budget.
func (s *Spiral) IsRunning() bool {
	return s.alpha > s.cfg.AlphaMin
}

// Reheat resets alpha to full energy.
func (s *Spiral) Reheat() {
	s.alpha = 1.0
}

// ReheatTo resets alpha to the given value, clamped to [AlphaMin, 1].
func (s *Spiral) ReheatTo(alpha float64) {
	s.alpha = math.Min(1.0, math.Max(s.cfg.AlphaMin, alpha))
}

// Alpha exposes the current cooling value.
func (s *Spiral) Alpha() float64 {
	return s.alpha
}

// Seed assigns every node its spiral position: the i-th node in BFS order
// sits at r = spacing*sqrt(i), theta = i*goldenAngle, with node 0 at the
// origin. Hubs are visited first so they cluster near the core.
func (s *Spiral) Seed() {
	if s.g == nil || len(s.nodes) == 0 {
		return
	}
	spacing := s.cfg.MinSeparation * 2.5
	order := s.visitOrder()
	for i, node := range order {
		r := spacing * math.Sqrt(float64(i))
		theta := float64(i) * goldenAngle
		node.X = r * math.Cos(theta)
		node.Y = r * math.Sin(theta)
		node.VX, node.VY = 0, 0
	}
}

// visitOrder returns the BFS ordering from the root, neighbors by
// descending degree, disconnected nodes appended at the end.
func (s *Spiral) visitOrder() []*graph.GraphNode {
	if s.g.AdjacencyList == nil {
		s.g.BuildAdjacency()
	}
	degree := func(id string) int { return len(s.g.AdjacencyList[id]) }

	root := s.pickRoot(degree)
	visited := make(map[string]bool, len(s.nodes))
	var order []*graph.GraphNode

	queue := []string{root}
	visited[root] = true
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, s.g.Nodes[id])

		neighbors := s.g.Neighbors(id)
		sort.Slice(neighbors, func(i, j int) bool {
			di, dj := degree(neighbors[i]), degree(neighbors[j])
			if di != dj {
				return di > dj
			}
			return neighbors[i] < neighbors[j]
		})
		for _, neighbor := range neighbors {
			if !visited[neighbor] {
				visited[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}

	// Disconnected leftovers.
	for _, node := range s.nodes {
		if !visited[node.ID] {
			order = append(order, node)
		}
	}
	return order
}

func (s *Spiral) pickRoot(degree func(string) int) string {
	if s.cfg.CenterID != "" {
		if _, ok := s.g.Nodes[s.cfg.CenterID]; ok {
			return s.cfg.CenterID
		}
	}
	root := s.nodes[0].ID
	best := degree(root)
	for _, node := range s.nodes[1:] {
		if d := degree(node.ID); d > best {
			root, best = node.ID, d
		}
	}
	return root
}

// Tick enforces minimum separation between every pair of free nodes: pairs
// closer than MinSeparation are pushed apart along the connecting vector by
// half the deficit each. No spring or repulsion forces run; cooling alone
// decides when ticking stops.
func (s *Spiral) Tick() {
	if s.g == nil || len(s.nodes) == 0 || !s.IsRunning() {
		return
	}
	for i := 0; i < len(s.nodes); i++ {
		for j := i + 1; j < len(s.nodes); j++ {
			a, b := s.nodes[i], s.nodes[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			dist := math.Hypot(dx, dy)
			if dist >= s.cfg.MinSeparation {
				continue
			}
			var ux, uy float64
			if dist > 0 {
				ux, uy = dx/dist, dy/dist
			} else {
				// Coincident pair: deterministic pseudo-random angle
				// so the push direction never divides by zero.
				theta := coincidentAngle(a.ID, b.ID)
				ux, uy = math.Cos(theta), math.Sin(theta)
			}
			push := (s.cfg.MinSeparation - dist) / 2
			if free(a) {
				a.X -= ux * push
				a.Y -= uy * push
			}
			if free(b) {
				b.X += ux * push
				b.Y += uy * push
			}
		}
	}
	s.alpha += (s.cfg.AlphaMin - s.alpha) * s.cfg.AlphaDecay
}

func coincidentAngle(idA, idB string) float64 {
	h := fnv.New32a()
	h.Write([]byte(idA))
	h.Write([]byte(idB))
	return float64(h.Sum32()%3600) / 3600 * 2 * math.Pi
}
