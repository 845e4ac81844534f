package v1

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/vaultview/graph"
	"github.com/hrygo/vaultview/layout"
)

// graphResponse is the wire shape of one graph view.
type graphResponse struct {
	Nodes       []*graph.GraphNode `json:"nodes"`
	Edges       []graph.GraphEdge  `json:"edges"`
	NodeCount   int                `json:"node_count"`
	EdgeCount   int                `json:"edge_count"`
	PreCapCount int                `json:"pre_cap_count,omitempty"`
	CapApplied  bool               `json:"cap_applied,omitempty"`
}

// GetGraph returns the global knowledge graph, optionally narrowed by the
// search, type and max_nodes query params.
func (s *APIV1Service) GetGraph(c echo.Context) error {
	g, err := s.GraphService.LoadGlobalGraph(c.Request().Context())
	if err != nil {
		slog.Error("failed to load global graph", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load graph")
	}

	params := graph.FilterParams{Search: c.QueryParam("search")}
	for _, t := range c.QueryParams()["type"] {
		params.NodeTypes = append(params.NodeTypes, graph.NodeType(t))
	}
	if raw := c.QueryParam("max_nodes"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			params.MaxNodes = parsed
		}
	}
	result := s.GraphService.ApplyFilters(g, params)
	return c.JSON(http.StatusOK, toGraphResponse(result.View, result.PreCapCount, result.CapApplied))
}

// GetLocalGraph returns the neighborhood of one node. An unknown center
// yields an empty graph, not an error.
func (s *APIV1Service) GetLocalGraph(c echo.Context) error {
	centerID := c.Param("id")
	depth := 1
	if raw := c.QueryParam("depth"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			depth = parsed
		}
	}

	g, err := s.GraphService.LoadLocalGraph(c.Request().Context(), centerID, depth)
	if err != nil {
		slog.Error("failed to load local graph", "center", centerID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load graph")
	}
	return c.JSON(http.StatusOK, toGraphResponse(g, 0, false))
}

// FilterGraph applies view filters to the global graph and reports the
// pre-cap count so the client can render "N of M nodes".
func (s *APIV1Service) FilterGraph(c echo.Context) error {
	var params graph.FilterParams
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed filter params")
	}

	full, err := s.GraphService.LoadGlobalGraph(c.Request().Context())
	if err != nil {
		slog.Error("failed to load global graph", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load graph")
	}

	result := s.GraphService.ApplyFilters(full, params)
	return c.JSON(http.StatusOK, toGraphResponse(result.View, result.PreCapCount, result.CapApplied))
}

// positionsRequest asks for a precomputed settled layout.
type positionsRequest struct {
	Engine string             `json:"engine"` // "spring" or "spiral"
	Filter graph.FilterParams `json:"filter"`
}

type nodePosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// positionTickBudget caps server-side settling; the interactive client
// owns frame-by-frame ticking, this endpoint only precomputes.
const positionTickBudget = 300

// GetPositions filters the graph, runs the requested layout engine until it
// converges or the tick budget runs out, and returns final positions.
func (s *APIV1Service) GetPositions(c echo.Context) error {
	var req positionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	full, err := s.GraphService.LoadGlobalGraph(c.Request().Context())
	if err != nil {
		slog.Error("failed to load global graph", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load graph")
	}
	view := s.GraphService.ApplyFilters(full, req.Filter).View

	engine := s.newEngine(req.Engine)
	engine.SetGraphData(view, false)
	for i := 0; i < positionTickBudget && engine.IsRunning(); i++ {
		engine.Tick()
	}

	positions := make([]nodePosition, 0, view.NodeCount())
	for _, node := range view.Nodes {
		positions = append(positions, nodePosition{ID: node.ID, X: node.X, Y: node.Y})
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].ID < positions[j].ID })
	return c.JSON(http.StatusOK, positions)
}

func (s *APIV1Service) newEngine(name string) layout.Engine {
	if name == "" {
		name = s.Profile.Layout
	}
	if name == "spiral" {
		return layout.NewSpiral(layout.DefaultSpiralConfig())
	}
	return layout.NewSpring(layout.DefaultSpringConfig())
}

func toGraphResponse(g *graph.GraphData, preCapCount int, capApplied bool) graphResponse {
	nodes := make([]*graph.GraphNode, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return graphResponse{
		Nodes:       nodes,
		Edges:       g.Edges,
		NodeCount:   g.NodeCount(),
		EdgeCount:   g.EdgeCount(),
		PreCapCount: preCapCount,
		CapApplied:  capApplied,
	}
}
