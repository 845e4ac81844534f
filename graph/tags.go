package graph

import "strings"

// BuildTagNodes synthesizes one tag node per distinct tag text and wires a
// tag edge from every tagged node to its tag node. Tag nodes are
// deduplicated by exact tag text; blank tags are ignored.
func BuildTagNodes(g *GraphData) {
	type tagged struct {
		nodeID string
		tag    string
	}
	var pending []tagged
	for _, node := range g.Nodes {
		if node.Type == NodeTypeTag {
			continue
		}
		for _, tag := range node.Tags {
			if strings.TrimSpace(tag) == "" {
				continue
			}
			pending = append(pending, tagged{nodeID: node.ID, tag: tag})
		}
	}

	for _, entry := range pending {
		tagID := CompositeID("tag", entry.tag)
		if _, ok := g.Nodes[tagID]; !ok {
			g.AddNode(&GraphNode{
				ID:       tagID,
				Title:    "#" + entry.tag,
				Type:     NodeTypeTag,
				LinkType: "tag",
			})
		}
		g.AddEdge(GraphEdge{
			Source: entry.nodeID,
			Target: tagID,
			Type:   EdgeTypeTag,
			Label:  entry.tag,
		})
	}
}

// RecountDegrees recomputes every node's total degree and its content-only
// degree from the final edge list in one pass.
func RecountDegrees(g *GraphData) {
	for _, node := range g.Nodes {
		node.LinkCount = 0
		node.ContentLinkCount = 0
	}
	for _, edge := range g.Edges {
		source, okS := g.Nodes[edge.Source]
		target, okT := g.Nodes[edge.Target]
		if !okS || !okT {
			continue
		}
		source.LinkCount++
		target.LinkCount++
		if edge.Type.dedupBucket() == "content" {
			source.ContentLinkCount++
			target.ContentLinkCount++
		}
	}
}
