package graph

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// contentConcurrency bounds concurrent full-record fetches in the content
// pass. Edge insertion shares one dedup set, so it is mutex-protected.
const contentConcurrency = 8

// Resolver materializes edges between already-aggregated nodes: first the
// structural pass over known foreign keys, then the content pass over every
// record's full text and link metadata.
type Resolver struct {
	store EntityStore
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store EntityStore) *Resolver {
	return &Resolver{store: store}
}

// ResolveStructural lists the entity types known to carry foreign keys and
// emits one edge per reference whose both endpoints exist in the graph.
// List failures degrade to zero edges for that entity type.
func (r *Resolver) ResolveStructural(ctx context.Context, g *GraphData) {
	refsByType := make(map[string][]structuralRef)
	for _, ref := range structuralRefs {
		refsByType[ref.entityType] = append(refsByType[ref.entityType], ref)
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		batches = make(map[string][]Record)
	)
	for entityType := range refsByType {
		wg.Add(1)
		go func(entityType string) {
			defer wg.Done()
			records, err := r.store.ListEntities(ctx, entityType)
			if err != nil {
				slog.Warn("failed to list entities for structural pass", "entity_type", entityType, "error", err)
				return
			}
			mu.Lock()
			batches[entityType] = records
			mu.Unlock()
		}(entityType)
	}
	wg.Wait()

	for entityType, refs := range refsByType {
		class := classForEntityType(entityType)
		for _, record := range batches[entityType] {
			rawID := record.GetStringOr("id", record.GetString("uid"))
			if rawID == "" {
				continue
			}
			sourceID := CompositeID(class.LinkType, rawID)
			for _, ref := range refs {
				r.emitStructural(g, sourceID, record, ref)
			}
		}
	}
}

func (r *Resolver) emitStructural(g *GraphData, sourceID string, record Record, ref structuralRef) {
	targets := []string{record.GetString(ref.field)}
	if ref.multi {
		targets = record.GetStrings(ref.field)
	}
	for _, rawTarget := range targets {
		if rawTarget == "" {
			continue
		}
		targetID := CompositeID(ref.targetLink, rawTarget)
		if !g.AddEdge(GraphEdge{Source: sourceID, Target: targetID, Type: ref.edgeType}) {
			slog.Debug("skipping unresolvable structural reference", "source", sourceID, "target", targetID, "field", ref.field)
		}
	}
}

// ResolveContent fetches every node's full record and turns embedded and
// explicit cross-references into content edges. A failing fetch or a
// malformed record skips that node only; structural edges already recorded
// stay untouched.
func (r *Resolver) ResolveContent(ctx context.Context, g *GraphData) {
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	sem := semaphore.NewWeighted(contentConcurrency)

	for _, node := range g.Nodes {
		if node.Type == NodeTypeTag {
			continue
		}
		class, ok := ClassForLinkType(node.LinkType)
		if !ok {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(node *GraphNode, class EntityClass) {
			defer wg.Done()
			defer sem.Release(1)

			rawID := rawIDOf(node.ID)
			record, err := r.store.GetEntity(ctx, class.EntityType, rawID)
			if err != nil {
				slog.Warn("failed to fetch record for content pass", "node", node.ID, "error", err)
				return
			}
			if record == nil {
				return
			}
			edges := contentEdges(node.ID, record)

			mu.Lock()
			for _, edge := range edges {
				if !g.AddEdge(edge) {
					slog.Debug("skipping unresolvable content reference", "source", edge.Source, "target", edge.Target)
				}
			}
			mu.Unlock()
		}(node, class)
	}
	wg.Wait()
}

// contentEdges extracts every content-link edge one record contributes:
// embedded links found in its text plus the explicit link metadata lists.
func contentEdges(sourceID string, record Record) []GraphEdge {
	var edges []GraphEdge

	text := collectText(record)
	for _, ref := range ExtractLinks(text) {
		edges = append(edges, GraphEdge{Source: sourceID, Target: ref.CompositeID(), Type: EdgeTypeContent})
	}

	// Explicit "type:id" strings.
	for _, raw := range record.GetStrings("links") {
		if ref, ok := splitCompositeID(raw); ok {
			edges = append(edges, GraphEdge{Source: sourceID, Target: ref, Type: EdgeTypeContent})
		}
	}

	// Explicit {link_type, item_id} pairs.
	for _, item := range record.GetList("linked_items") {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		linked := Record(raw)
		linkType := linked.GetString("link_type")
		itemID := linked.GetString("item_id")
		if linkType == "" || itemID == "" {
			continue
		}
		edges = append(edges, GraphEdge{Source: sourceID, Target: CompositeID(linkType, itemID), Type: EdgeTypeContent})
	}

	return edges
}

func classForEntityType(entityType string) EntityClass {
	for _, class := range Catalog {
		if class.EntityType == entityType {
			return class
		}
	}
	return EntityClass{EntityType: entityType, LinkType: entityType}
}

// rawIDOf strips the link-type prefix from a composite id.
func rawIDOf(compositeID string) string {
	for i := 0; i < len(compositeID); i++ {
		if compositeID[i] == ':' {
			return compositeID[i+1:]
		}
	}
	return compositeID
}

// splitCompositeID validates a "type:id" string against the catalog.
func splitCompositeID(raw string) (string, bool) {
	for i := 0; i < len(raw); i++ {
		if raw[i] == ':' {
			linkType, rawID := raw[:i], raw[i+1:]
			if rawID == "" {
				return "", false
			}
			if _, ok := ClassForLinkType(linkType); !ok {
				return "", false
			}
			return raw, true
		}
	}
	return "", false
}
