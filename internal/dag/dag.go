// SPDX-License-Identifier: MPL-2.0

// Package dag orders resolved modules so that every module comes after the
// modules it depends on. AMD loaders tolerate dependency cycles, so a cycle
// is reported but never fatal: callers fall back to discovery order.
package dag

import (
	"fmt"
	"strings"

	"github.com/amdpack/amdpack/internal/amd"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle lists the nodes left with unresolved dependencies, in
		// insertion order. It contains at least one full cycle.
		Cycle []string
	}

	// Graph is a directed graph of module ids. An edge from A to B means A
	// loads before B, i.e. B depends on A.
	Graph struct {
		adjacency map[string][]string
		edges     map[[2]string]bool
		nodes     []string
		nodeSet   map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected among: %s", strings.Join(e.Cycle, ", "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		edges:     make(map[[2]string]bool),
		nodeSet:   make(map[string]bool),
	}
}

// FromRegistry builds the dependency graph of reg. Dependencies are passed
// through normalize (canonicalization plus aliasing) before lookup; those
// that do not name a registered module are ignored.
func FromRegistry(reg *amd.Registry, normalize func(string) string) *Graph {
	g := New()
	for _, m := range reg.Modules() {
		g.AddNode(m.ID)
	}
	for _, m := range reg.Modules() {
		for _, dep := range m.Dependencies {
			if normalize != nil {
				dep = normalize(dep)
			}
			if reg.Has(dep) {
				g.AddEdge(dep, m.ID)
			}
		}
	}
	return g
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that from loads before to. Both nodes are added if
// missing; repeated edges are stored once.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]string{from, to}
	if g.edges[key] {
		return
	}
	g.edges[key] = true
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// TopologicalSort returns a dependency-first order using Kahn's algorithm.
// Nodes at the same level keep their insertion order. A cycle yields a
// *CycleError.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var cycleNodes []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycleNodes = append(cycleNodes, node)
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}
	return result, nil
}

// Order returns the dependency-first order, or the insertion order together
// with the *CycleError when the graph has a cycle.
func (g *Graph) Order() ([]string, *CycleError) {
	order, err := g.TopologicalSort()
	if err != nil {
		cycle, _ := err.(*CycleError)
		return g.Nodes(), cycle
	}
	return order, nil
}
