package analysis

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"

	"renewables-dashboard/internal/modules/sites/types"
	shared "renewables-dashboard/internal/shared/types"
)

const (
	// Two sites are linked when they are closer than maxEdgeDistance degrees
	// and their wind speeds differ by less than maxWindDifference m/s.
	maxEdgeDistance   = 10.0
	maxWindDifference = 5.0

	damping           = 0.85
	rankTolerance     = 1e-10
	maxRankIterations = 1000
	resolution        = 1.0

	// Louvain visits nodes in a random order; a fixed seed keeps the
	// partition stable across requests for the same readings.
	louvainSeed = 0x5eed
)

// Network links similar nearby sites and scores each site by weighted
// PageRank and community membership. Output order follows readings.
func Network(readings []types.Reading) []shared.SitePayload {
	n := len(readings)
	out := make([]shared.SitePayload, 0, n)
	if n == 0 {
		return out
	}

	undirected := simple.NewWeightedUndirectedGraph(0, 0)
	for i := range readings {
		undirected.AddNode(simple.Node(i))
	}

	edges := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w, ok := edgeWeight(readings[i], readings[j])
			if !ok {
				continue
			}
			u, v := simple.Node(i), simple.Node(j)
			undirected.SetWeightedEdge(undirected.NewWeightedEdge(u, v, w))
			edges++
		}
	}

	g := orderedUndirected{undirected}
	ranks := pageRanks(g, n, edges)
	membership := communities(g, n, edges)

	for i, r := range readings {
		out = append(out, shared.SitePayload{
			Name:      r.Site,
			Lon:       r.Lon,
			Lat:       r.Lat,
			PageRank:  ranks[i],
			Community: shared.CommunityID(membership[i]),
		})
	}
	return out
}

func edgeWeight(a, b types.Reading) (float64, bool) {
	distance := math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
	if distance >= maxEdgeDistance || math.Abs(a.WindSpeed-b.WindSpeed) >= maxWindDifference {
		return 0, false
	}
	return 1 / (distance + 1), true
}

// pageRanks runs weighted power iteration from the uniform vector. Each
// undirected edge counts in both directions; a node without edges spreads
// its rank evenly. Node ids must be 0..n-1.
func pageRanks(g graph.WeightedUndirected, n, edges int) []float64 {
	uniform := make([]float64, n)
	for i := range uniform {
		uniform[i] = 1 / float64(n)
	}
	if edges == 0 {
		return uniform
	}

	teleport := (1 - damping) / float64(n)
	m := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		to := graph.NodesOf(g.From(int64(j)))
		var total float64
		for _, v := range to {
			w, _ := g.Weight(int64(j), v.ID())
			total += w
		}
		for i := 0; i < n; i++ {
			if total == 0 {
				m.Set(i, j, teleport+damping/float64(n))
			} else {
				m.Set(i, j, teleport)
			}
		}
		for _, v := range to {
			w, _ := g.Weight(int64(j), v.ID())
			m.Set(int(v.ID()), j, teleport+damping*w/total)
		}
	}

	x := mat.NewVecDense(n, uniform)
	next := mat.NewVecDense(n, nil)
	for iter := 0; iter < maxRankIterations; iter++ {
		next.MulVec(m, x)
		var diff float64
		for i := 0; i < n; i++ {
			diff += math.Abs(next.AtVec(i) - x.AtVec(i))
		}
		x, next = next, x
		if diff < float64(n)*rankTolerance {
			break
		}
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out
}

// communities returns a community id per node. Ids are dense, larger
// communities get smaller ids, ties go to the community holding the
// earliest node.
func communities(g graph.Undirected, n, edges int) []int {
	var groups [][]int
	if edges == 0 {
		for i := 0; i < n; i++ {
			groups = append(groups, []int{i})
		}
	} else {
		for _, c := range community.Modularize(g, resolution, rand.NewPCG(louvainSeed, louvainSeed)).Communities() {
			if len(c) == 0 {
				continue
			}
			ids := make([]int, 0, len(c))
			for _, node := range c {
				ids = append(ids, int(node.ID()))
			}
			sort.Ints(ids)
			groups = append(groups, ids)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return groups[i][0] < groups[j][0]
	})

	out := make([]int, n)
	for id, members := range groups {
		for _, node := range members {
			out[node] = id
		}
	}
	return out
}

// orderedUndirected yields nodes and neighbours in ID order. The simple
// graph iterates maps, which would change the order of floating point sums
// between calls on the same readings.
type orderedUndirected struct {
	*simple.WeightedUndirectedGraph
}

func (g orderedUndirected) Nodes() graph.Nodes {
	return sortedByID(g.WeightedUndirectedGraph.Nodes())
}

func (g orderedUndirected) From(id int64) graph.Nodes {
	return sortedByID(g.WeightedUndirectedGraph.From(id))
}

func sortedByID(it graph.Nodes) graph.Nodes {
	nodes := graph.NodesOf(it)
	if len(nodes) == 0 {
		return graph.Empty
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	return iterator.NewOrderedNodes(nodes)
}
