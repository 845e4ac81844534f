package graph

import (
	"sort"
	"strings"
	"time"
)

// OrphanPolicy controls whether nodes with zero filtered-view edges are kept.
type OrphanPolicy int

const (
	// OrphanShow keeps orphans (default).
	OrphanShow OrphanPolicy = iota
	// OrphanHide drops every node whose filtered degree is zero.
	OrphanHide
	// OrphanOnly keeps only nodes whose filtered degree is zero.
	OrphanOnly
)

// FilterParams is the closed set of view filters. Zero values mean "no
// constraint" throughout; invalid inputs are clamped, never rejected.
type FilterParams struct {
	// NodeTypes restricts visible node categories; empty allows all.
	NodeTypes []NodeType `json:"node_types"`
	// Search is a case-insensitive substring match against titles.
	Search string `json:"search"`
	// IncludeTags requires at least one, ExcludeTags forbids all.
	IncludeTags []string `json:"include_tags"`
	ExcludeTags []string `json:"exclude_tags"`
	// TimeStart/TimeEnd bound the modification window. The window only
	// applies to non-tag nodes carrying a real timestamp.
	TimeStart *time.Time `json:"time_start"`
	TimeEnd   *time.Time `json:"time_end"`
	// MinLinkCount is evaluated against degree recomputed within the
	// filtered candidate graph, before the cap.
	MinLinkCount int          `json:"min_link_count"`
	OrphanPolicy OrphanPolicy `json:"orphan_policy"`
	// HideOrphanTags drops degree-zero tag nodes regardless of the
	// general orphan policy.
	HideOrphanTags bool `json:"hide_orphan_tags"`
	// MaxNodes caps the view size, keeping hubs first. Non-positive
	// means no cap.
	MaxNodes int `json:"max_nodes"`
}

// FilterResult reports what the filter kept and whether the cap fired, so a
// caller can render "N of M nodes".
type FilterResult struct {
	View        *GraphData
	PreCapCount int
	CapApplied  bool
}

// ApplyFilters derives a display-ready subgraph. The full graph is never
// mutated. Ordering is deliberate: predicates, edge restriction, degree
// recount, threshold and orphan policy, then the top-K cap, then a final
// edge restriction and adjacency rebuild.
func ApplyFilters(full *GraphData, params FilterParams) FilterResult {
	if full == nil {
		return FilterResult{View: NewGraphData()}
	}

	allowedTypes := make(map[NodeType]struct{}, len(params.NodeTypes))
	for _, t := range params.NodeTypes {
		allowedTypes[t] = struct{}{}
	}
	search := strings.ToLower(strings.TrimSpace(params.Search))

	// Step 1: type, search, tag and timeline predicates.
	candidates := make(map[string]struct{}, len(full.Nodes))
	for id, node := range full.Nodes {
		if len(allowedTypes) > 0 {
			if _, ok := allowedTypes[node.Type]; !ok {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(node.Title), search) {
			continue
		}
		if !matchesTags(node, params.IncludeTags, params.ExcludeTags) {
			continue
		}
		if !matchesWindow(node, params.TimeStart, params.TimeEnd) {
			continue
		}
		candidates[id] = struct{}{}
	}

	// Step 2: edges whose both endpoints survived.
	var candidateEdges []GraphEdge
	for _, edge := range full.Edges {
		if _, ok := candidates[edge.Source]; !ok {
			continue
		}
		if _, ok := candidates[edge.Target]; !ok {
			continue
		}
		candidateEdges = append(candidateEdges, edge)
	}

	// Step 3: degree within the candidate graph.
	degree := make(map[string]int, len(candidates))
	for _, edge := range candidateEdges {
		degree[edge.Source]++
		degree[edge.Target]++
	}

	// Step 4: min-degree threshold and orphan policy.
	for id := range candidates {
		d := degree[id]
		if d < params.MinLinkCount {
			delete(candidates, id)
			continue
		}
		switch params.OrphanPolicy {
		case OrphanHide:
			if d == 0 {
				delete(candidates, id)
				continue
			}
		case OrphanOnly:
			if d > 0 {
				delete(candidates, id)
				continue
			}
		}
		if params.HideOrphanTags && d == 0 && full.Nodes[id].Type == NodeTypeTag {
			delete(candidates, id)
		}
	}
	preCapCount := len(candidates)

	// Step 5: top-K cap by degree, most recent first on ties. This keeps
	// the graph's hubs rather than truncating arbitrarily.
	capApplied := false
	if params.MaxNodes > 0 && len(candidates) > params.MaxNodes {
		capApplied = true
		ranked := make([]string, 0, len(candidates))
		for id := range candidates {
			ranked = append(ranked, id)
		}
		sort.Slice(ranked, func(i, j int) bool {
			di, dj := degree[ranked[i]], degree[ranked[j]]
			if di != dj {
				return di > dj
			}
			mi := full.Nodes[ranked[i]].ModifiedAt
			mj := full.Nodes[ranked[j]].ModifiedAt
			if !mi.Equal(mj) {
				return mi.After(mj)
			}
			return ranked[i] < ranked[j]
		})
		kept := make(map[string]struct{}, params.MaxNodes)
		for _, id := range ranked[:params.MaxNodes] {
			kept[id] = struct{}{}
		}
		candidates = kept
	}

	// Steps 6-7: final edge restriction and adjacency rebuild happen in
	// Subgraph, then view degrees reflect the view's own edge set.
	view := full.Subgraph(candidates)
	RecountDegrees(view)
	return FilterResult{View: view, PreCapCount: preCapCount, CapApplied: capApplied}
}

func matchesTags(node *GraphNode, include, exclude []string) bool {
	if len(include) > 0 {
		found := false
		for _, want := range include {
			if hasTag(node, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, banned := range exclude {
		if hasTag(node, banned) {
			return false
		}
	}
	return true
}

func hasTag(node *GraphNode, tag string) bool {
	for _, have := range node.Tags {
		if have == tag {
			return true
		}
	}
	// A tag node stands for its own tag text.
	return node.Type == NodeTypeTag && node.ID == CompositeID("tag", tag)
}

func matchesWindow(node *GraphNode, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}
	// The window only constrains dateable nodes.
	if node.Type == NodeTypeTag || node.ModifiedAt.IsZero() {
		return true
	}
	if start != nil && end != nil && start.After(*end) {
		return false
	}
	if start != nil && node.ModifiedAt.Before(*start) {
		return false
	}
	if end != nil && node.ModifiedAt.After(*end) {
		return false
	}
	return true
}
