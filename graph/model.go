// Package graph assembles heterogeneous vault records into a single
// navigable knowledge graph: nodes keyed by composite id, typed edges,
// and a derived undirected adjacency index.
package graph

import (
	"math"
	"time"
)

// NodeType classifies a node by the kind of record it was projected from.
type NodeType string

// Node type constants. Tag nodes are synthesized, never listed from the store.
const (
	NodeTypeNote         NodeType = "note"
	NodeTypeTask         NodeType = "task"
	NodeTypeProject      NodeType = "project"
	NodeTypeContact      NodeType = "contact"
	NodeTypeCompany      NodeType = "company"
	NodeTypeContactGroup NodeType = "contact-group"
	NodeTypeEvent        NodeType = "event"
	NodeTypeJournal      NodeType = "journal"
	NodeTypeDeal         NodeType = "deal"
	NodeTypeTransaction  NodeType = "transaction"
	NodeTypeSnippet      NodeType = "snippet"
	NodeTypeFeedArticle  NodeType = "feed-article"
	NodeTypeCredential   NodeType = "credential"
	NodeTypeFile         NodeType = "file"
	NodeTypeTag          NodeType = "tag"
)

// EdgeType classifies the relation an edge carries.
type EdgeType string

const (
	// EdgeTypeContent is a cross-reference found in record content or
	// explicit link metadata (wiki links, vault:// URLs, link lists).
	EdgeTypeContent EdgeType = "content"
	// EdgeTypeHierarchy is a parent-child relation.
	EdgeTypeHierarchy EdgeType = "hierarchy"
	// EdgeTypeMembership is a project/company/group ownership relation.
	EdgeTypeMembership EdgeType = "membership"
	// EdgeTypeTag connects a tagged node to its synthetic tag node.
	EdgeTypeTag EdgeType = "tag"
	// EdgeTypeBackRef is a reverse content reference surfaced by the store.
	EdgeTypeBackRef EdgeType = "backref"
	// EdgeTypeWikiSource marks synthetic wiki-source membership.
	EdgeTypeWikiSource EdgeType = "wiki-source"
)

// dedupBucket maps an edge type to its deduplication bucket. Content-style
// references share one bucket so the same pair never yields two content
// edges, while a structural relation between the same pair is still allowed.
func (t EdgeType) dedupBucket() string {
	switch t {
	case EdgeTypeContent, EdgeTypeBackRef:
		return "content"
	case EdgeTypeHierarchy:
		return "hierarchy"
	case EdgeTypeMembership, EdgeTypeWikiSource:
		return "membership"
	case EdgeTypeTag:
		return "tag"
	default:
		return string(t)
	}
}

// GraphNode is one node of the knowledge graph. Position and velocity are
// mutated in place by the layout engine; everything else is a read-only
// projection of the underlying record.
type GraphNode struct {
	ID       string   `json:"id"` // composite "{linkType}:{rawId}"
	Title    string   `json:"title"`
	Type     NodeType `json:"type"`
	LinkType string   `json:"link_type"`

	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"-"`
	VY float64 `json:"-"`

	LinkCount        int       `json:"link_count"`
	ContentLinkCount int       `json:"content_link_count"`
	Tags             []string  `json:"tags,omitempty"`
	ModifiedAt       time.Time `json:"modified_at"`

	// View flags. Layout skips force application and integration for
	// pinned or dragged nodes; they still push on their neighbors.
	Pinned   bool `json:"pinned"`
	Dragging bool `json:"-"`
	Hovered  bool `json:"-"`
	Selected bool `json:"-"`
}

// Radius returns the node's packing radius for collision resolution.
// It grows with connectivity and shrinks with hierarchy depth.
func (n *GraphNode) Radius(depth int) float64 {
	r := 6.0 + 2.0*math.Sqrt(float64(n.LinkCount))
	r -= 1.5 * float64(depth)
	if r < 3.0 {
		r = 3.0
	}
	return r
}

// GraphEdge is a typed, directed relation between two nodes.
type GraphEdge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
	// Label carries the tag text for tag edges, empty otherwise.
	Label       string `json:"label,omitempty"`
	Highlighted bool   `json:"-"`
}

// GraphData is one fully assembled graph. It is built privately by a load
// operation and handed to consumers complete; it is never edited afterwards
// except for node positions during layout ticks.
type GraphData struct {
	Nodes map[string]*GraphNode `json:"nodes"`
	Edges []GraphEdge           `json:"edges"`

	// AdjacencyList is derived from Edges by BuildAdjacency and is
	// undirected: j in adj[i] iff i in adj[j].
	AdjacencyList map[string]map[string]struct{} `json:"-"`

	// edgeSeen holds "{bucket}|{minID}|{maxID}" keys for dedup.
	edgeSeen map[string]struct{}
}

// NewGraphData creates an empty graph.
func NewGraphData() *GraphData {
	return &GraphData{
		Nodes:    make(map[string]*GraphNode),
		edgeSeen: make(map[string]struct{}),
	}
}

// AddNode inserts a node, overwriting any previous node with the same id.
func (g *GraphData) AddNode(node *GraphNode) {
	if node == nil || node.ID == "" {
		return
	}
	g.Nodes[node.ID] = node
}

// AddEdge inserts an edge if both endpoints exist and the unordered pair has
// not been seen in the same dedup bucket. Self-references are dropped.
// Returns true when an edge was actually appended.
func (g *GraphData) AddEdge(edge GraphEdge) bool {
	if edge.Source == "" || edge.Target == "" || edge.Source == edge.Target {
		return false
	}
	if _, ok := g.Nodes[edge.Source]; !ok {
		return false
	}
	if _, ok := g.Nodes[edge.Target]; !ok {
		return false
	}
	key := edgeKey(edge.Type, edge.Source, edge.Target)
	if g.edgeSeen == nil {
		g.edgeSeen = make(map[string]struct{})
	}
	if _, ok := g.edgeSeen[key]; ok {
		return false
	}
	g.edgeSeen[key] = struct{}{}
	g.Edges = append(g.Edges, edge)
	return true
}

func edgeKey(t EdgeType, source, target string) string {
	if source > target {
		source, target = target, source
	}
	return t.dedupBucket() + "|" + source + "|" + target
}

// BuildAdjacency rebuilds the undirected adjacency index from Edges.
func (g *GraphData) BuildAdjacency() {
	adj := make(map[string]map[string]struct{}, len(g.Nodes))
	for id := range g.Nodes {
		adj[id] = make(map[string]struct{})
	}
	for _, edge := range g.Edges {
		if _, ok := adj[edge.Source]; !ok {
			continue
		}
		if _, ok := adj[edge.Target]; !ok {
			continue
		}
		adj[edge.Source][edge.Target] = struct{}{}
		adj[edge.Target][edge.Source] = struct{}{}
	}
	g.AdjacencyList = adj
}

// Neighbors returns the ids adjacent to the given node. BuildAdjacency must
// have been called since the last edge insertion.
func (g *GraphData) Neighbors(id string) []string {
	set := g.AdjacencyList[id]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for neighbor := range set {
		out = append(out, neighbor)
	}
	return out
}

// BFSBall returns the set of node ids reachable from center within depth
// hops, including center itself. Returns nil when center is unknown.
func (g *GraphData) BFSBall(center string, depth int) map[string]struct{} {
	if _, ok := g.Nodes[center]; !ok {
		return nil
	}
	if g.AdjacencyList == nil {
		g.BuildAdjacency()
	}
	visited := map[string]struct{}{center: {}}
	frontier := []string{center}
	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			for neighbor := range g.AdjacencyList[id] {
				if _, ok := visited[neighbor]; ok {
					continue
				}
				visited[neighbor] = struct{}{}
				next = append(next, neighbor)
			}
		}
		frontier = next
	}
	return visited
}

// Subgraph copies the nodes in keep and the edges whose both endpoints
// survive, then rebuilds adjacency. Node structs are shallow-copied so the
// view can be ticked without disturbing the source graph.
func (g *GraphData) Subgraph(keep map[string]struct{}) *GraphData {
	sub := NewGraphData()
	for id := range keep {
		if node, ok := g.Nodes[id]; ok {
			copied := *node
			sub.Nodes[id] = &copied
		}
	}
	for _, edge := range g.Edges {
		if _, ok := sub.Nodes[edge.Source]; !ok {
			continue
		}
		if _, ok := sub.Nodes[edge.Target]; !ok {
			continue
		}
		sub.AddEdge(edge)
	}
	sub.BuildAdjacency()
	return sub
}

// NodeCount returns the number of nodes.
func (g *GraphData) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of edges.
func (g *GraphData) EdgeCount() int {
	return len(g.Edges)
}
