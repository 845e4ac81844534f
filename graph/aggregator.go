package graph

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"

	"golang.org/x/sync/semaphore"
)

// aggregateConcurrency bounds the number of in-flight list requests.
const aggregateConcurrency = 8

// Aggregator lists every entity category of the catalog and normalizes the
// records into graph nodes.
type Aggregator struct {
	store EntityStore
}

// NewAggregator creates an Aggregator over the given store.
func NewAggregator(store EntityStore) *Aggregator {
	return &Aggregator{store: store}
}

// Aggregate fans out one list request per catalog entry and collects the
// resulting nodes. A failing request degrades to zero nodes for that
// category; it never aborts the sibling requests.
func (a *Aggregator) Aggregate(ctx context.Context) []*GraphNode {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		nodes []*GraphNode
	)
	sem := semaphore.NewWeighted(aggregateConcurrency)

	for _, class := range Catalog {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(class EntityClass) {
			defer wg.Done()
			defer sem.Release(1)

			records, err := a.store.ListEntities(ctx, class.EntityType)
			if err != nil {
				slog.Warn("failed to list entities", "entity_type", class.EntityType, "error", err)
				return
			}
			var batch []*GraphNode
			for _, record := range records {
				if node := buildNode(record, class); node != nil {
					batch = append(batch, node)
				}
			}
			mu.Lock()
			nodes = append(nodes, batch...)
			mu.Unlock()
		}(class)
	}
	wg.Wait()
	return nodes
}

// buildNode normalizes one raw record into a graph node. Records without an
// id are skipped.
func buildNode(record Record, class EntityClass) *GraphNode {
	rawID := record.GetStringOr("id", record.GetString("uid"))
	if rawID == "" {
		return nil
	}
	return &GraphNode{
		ID:         CompositeID(class.LinkType, rawID),
		Title:      resolveTitle(record, class),
		Type:       class.NodeType,
		LinkType:   class.LinkType,
		X:          rand.Float64()*800 - 400,
		Y:          rand.Float64()*800 - 400,
		Tags:       record.Tags(),
		ModifiedAt: record.ModifiedAt(),
	}
}

// resolveTitle picks a display title: entity-specific candidates first, then
// the generic candidates, then a truncated description, then the entity
// type name itself.
func resolveTitle(record Record, class EntityClass) string {
	for _, field := range titleFields[class.EntityType] {
		if title := record.GetString(field); title != "" {
			return title
		}
	}
	for _, field := range genericTitleFields {
		if title := record.GetString(field); title != "" {
			return title
		}
	}
	for _, field := range []string{"description", "content"} {
		if text := record.GetString(field); text != "" {
			return truncateTitle(text)
		}
	}
	return class.EntityType
}

// truncateTitle keeps the first line, rune-safe for CJK.
func truncateTitle(text string) string {
	for i, r := range text {
		if r == '\n' {
			text = text[:i]
			break
		}
	}
	runes := []rune(text)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return text
}

// CompositeID builds the graph-wide node key for a link type and raw id.
func CompositeID(linkType, rawID string) string {
	return linkType + ":" + rawID
}
