package engine

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// PathGraph is a traversal graph over one reachable set. Nodes are the
// set's cells keyed by Grid.CellIndex; unit-weight undirected edges join
// 4-adjacent members.
type PathGraph struct {
	grid *Grid
	g    *simple.UndirectedGraph
}

// BuildPathGraph registers every cell of the set and connects adjacent members
func BuildPathGraph(set *ReachableSet, grid *Grid) *PathGraph {
	pg := &PathGraph{grid: grid, g: simple.NewUndirectedGraph()}

	members := set.Cells()
	for _, cell := range members {
		pg.g.AddNode(simple.Node(grid.CellIndex(cell)))
	}

	for _, cell := range members {
		from := grid.CellIndex(cell)
		for _, neighbor := range grid.Neighbors(cell) {
			if !set.Has(neighbor) {
				continue
			}
			to := grid.CellIndex(neighbor)
			if pg.g.HasEdgeBetween(from, to) {
				continue
			}
			pg.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}

	return pg
}

// Has reports whether the cell is a node of the graph
func (pg *PathGraph) Has(cell Cell) bool {
	if !pg.grid.IsWithinBounds(cell) {
		return false
	}
	return pg.g.Node(pg.grid.CellIndex(cell)) != nil
}

// NodeCount returns the number of registered cells
func (pg *PathGraph) NodeCount() int {
	return pg.g.Nodes().Len()
}

// EdgeCount returns the number of undirected edges
func (pg *PathGraph) EdgeCount() int {
	return pg.g.Edges().Len()
}

// ShortestPath returns a minimum-edge path from start to end, both inclusive.
// The result is empty when either endpoint is not a node or no path exists.
func (pg *PathGraph) ShortestPath(start, end Cell) []Cell {
	if !pg.Has(start) || !pg.Has(end) {
		return []Cell{}
	}
	if start == end {
		return []Cell{start}
	}

	s := pg.g.Node(pg.grid.CellIndex(start))
	t := pg.g.Node(pg.grid.CellIndex(end))

	shortest, _ := path.AStar(s, t, pg.g, pg.heuristic)
	nodes, _ := shortest.To(t.ID())
	if len(nodes) == 0 {
		return []Cell{}
	}

	out := make([]Cell, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, pg.grid.CellFromIndex(n.ID()))
	}
	return out
}

// heuristic is the Manhattan distance between two nodes; admissible on a
// unit-weight 4-connected lattice.
func (pg *PathGraph) heuristic(x, y graph.Node) float64 {
	return float64(ManhattanDistance(pg.grid.CellFromIndex(x.ID()), pg.grid.CellFromIndex(y.ID())))
}
