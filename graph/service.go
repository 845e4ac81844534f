package graph

import (
	"context"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

// GraphCache is the cache surface the service uses for built graphs.
// A nil cache disables caching.
type GraphCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

const globalGraphCacheKey = "graph:global"

// graphCacheTTL bounds staleness of a cached global graph. The graph is a
// read-only projection, so TTL expiry is the only invalidation needed.
const graphCacheTTL = 2 * time.Minute

// Service assembles knowledge graphs from the entity store. Loads publish
// atomically: a graph is built privately and returned complete, never
// exposed half-assembled.
type Service struct {
	store EntityStore
	cache GraphCache
}

// NewService creates a graph service. cache may be nil.
func NewService(store EntityStore, cache GraphCache) *Service {
	return &Service{store: store, cache: cache}
}

// LoadGlobalGraph builds the graph over every record in the vault.
func (s *Service) LoadGlobalGraph(ctx context.Context) (*GraphData, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(globalGraphCacheKey); ok {
			if g, ok := cached.(*GraphData); ok {
				return g, nil
			}
		}
	}

	g, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(globalGraphCacheKey, g, graphCacheTTL)
	}
	return g, nil
}

// LoadLocalGraph builds the BFS ball of the given radius around centerID.
// An unknown or malformed center yields an empty graph, not an error.
func (s *Service) LoadLocalGraph(ctx context.Context, centerID string, depth int) (*GraphData, error) {
	full, err := s.LoadGlobalGraph(ctx)
	if err != nil {
		return nil, err
	}
	if depth < 0 {
		depth = 0
	}
	ball := full.BFSBall(centerID, depth)
	if ball == nil {
		slog.Debug("local graph center not found", "center", centerID)
		return NewGraphData(), nil
	}
	return full.Subgraph(ball), nil
}

// ApplyFilters derives a display-ready view from a loaded graph.
func (s *Service) ApplyFilters(full *GraphData, params FilterParams) FilterResult {
	return ApplyFilters(full, params)
}

// build runs the whole pipeline: aggregate nodes, resolve structural and
// content edges, synthesize tag nodes, recount degrees, index adjacency.
func (s *Service) build(ctx context.Context) (*GraphData, error) {
	loadID := shortuuid.New()
	start := time.Now()

	g := NewGraphData()
	aggregator := NewAggregator(s.store)
	for _, node := range aggregator.Aggregate(ctx) {
		g.AddNode(node)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolver := NewResolver(s.store)
	resolver.ResolveStructural(ctx, g)
	resolver.ResolveContent(ctx, g)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	BuildTagNodes(g)
	RecountDegrees(g)
	g.BuildAdjacency()

	slog.Info("graph loaded",
		"load_id", loadID,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return g, nil
}
