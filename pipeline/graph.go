package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kbukum/conduit/element"
)

// Unwrapper is implemented by element decorators (tracing, logging,
// metrics) so graph export sees through them to the structural element.
type Unwrapper interface {
	Unwrap() element.Element
}

func unwrap(el element.Element) element.Element {
	for {
		u, ok := el.(Unwrapper)
		if !ok {
			return el
		}
		el = u.Unwrap()
	}
}

// Node is one stage in the exported execution graph.
type Node struct {
	ID      string
	Element element.Element
}

// Edge is a directed dependency: To consumes the output of From.
type Edge struct {
	From string
	To   string
}

// Graph is the structural execution graph of a pipeline. Nested pipelines
// are inlined, fork elements appear as one node feeding each branch, and
// branch terminals feed the stage after the fork directly: forks have no
// implicit merge node.
type Graph struct {
	Nodes []*Node
	Edges []Edge
}

// BuildGraph exports a pipeline's structure. Node identifiers are the
// element identifiers; repeated identifiers get a "#n" occurrence suffix.
func BuildGraph(p *Pipeline) *Graph {
	b := &graphBuilder{graph: &Graph{}, seen: make(map[string]int)}
	b.populate(p, nil)
	return b.graph
}

type graphBuilder struct {
	graph *Graph
	seen  map[string]int
}

func (b *graphBuilder) nodeID(id string) string {
	n := b.seen[id]
	b.seen[id]++
	if n == 0 {
		return id
	}
	return fmt.Sprintf("%s#%d", id, n)
}

func (b *graphBuilder) add(id string, el element.Element, parents []string) string {
	nid := b.nodeID(id)
	b.graph.Nodes = append(b.graph.Nodes, &Node{ID: nid, Element: el})
	for _, parent := range parents {
		b.graph.Edges = append(b.graph.Edges, Edge{From: parent, To: nid})
	}
	return nid
}

// populate walks one pipeline and returns its terminal frontier: the node
// identifiers whose output feeds whatever comes after this pipeline.
func (b *graphBuilder) populate(p *Pipeline, parents []string) []string {
	for i := 0; i < p.Len(); i++ {
		el := unwrap(p.At(i))
		switch v := el.(type) {
		case *Nested:
			parents = b.populate(v.Inner(), parents)
		case *Fork:
			forkID := b.add(p.ids[i], v, parents)
			var frontier []string
			for _, name := range v.Paths() {
				branch, _ := v.Branch(name)
				frontier = append(frontier, b.populate(branch, []string{forkID})...)
			}
			parents = frontier
		default:
			parents = []string{b.add(p.ids[i], el, parents)}
		}
	}
	return parents
}

// Levels groups nodes by dependency depth using Kahn's algorithm. Nodes in
// the same level have no path between them. Identifiers within a level are
// sorted for stable output.
func (g *Graph) Levels() ([][]string, error) {
	inDegree := make(map[string]int, len(g.Nodes))
	dependents := make(map[string][]string)
	for _, n := range g.Nodes {
		inDegree[n.ID] = 0
	}
	for _, e := range g.Edges {
		if _, ok := inDegree[e.From]; !ok {
			return nil, fmt.Errorf("graph: edge references unknown node %q", e.From)
		}
		if _, ok := inDegree[e.To]; !ok {
			return nil, fmt.Errorf("graph: edge references unknown node %q", e.To)
		}
		inDegree[e.To]++
		dependents[e.From] = append(dependents[e.From], e.To)
	}

	var queue []string
	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	var levels [][]string
	visited := 0
	for len(queue) > 0 {
		sort.Strings(queue)
		levels = append(levels, queue)
		visited += len(queue)

		var next []string
		for _, id := range queue {
			for _, dep := range dependents[id] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		queue = next
	}

	if visited != len(g.Nodes) {
		return nil, fmt.Errorf("graph: cycle detected, processed %d of %d nodes", visited, len(g.Nodes))
	}
	return levels, nil
}

// DOT renders the graph in Graphviz dot format.
func (g *Graph) DOT() string {
	var sb strings.Builder
	sb.WriteString("digraph pipeline {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&sb, "  %q;\n", n.ID)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "  %q -> %q;\n", e.From, e.To)
	}
	sb.WriteString("}\n")
	return sb.String()
}
