// SPDX-License-Identifier: MPL-2.0

// Package dag orders requirement graphs. Nodes are identifiers; an edge from
// a node to one of its dependencies means the dependency must be assembled
// first. capwire uses it to instantiate providers dependency-first and to
// print the requirement graph in layers.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing a
	// topological ordering.
	CycleError[K ~string] struct {
		// Nodes lists the nodes that could not be ordered: every member of a
		// cycle plus anything that depends on one.
		Nodes []K
	}

	// Graph is a directed dependency graph with deterministic ordering:
	// among nodes that are ready at the same time, insertion order wins.
	Graph[K ~string] struct {
		// deps maps each node to the nodes it depends on, without duplicates.
		deps map[K][]K
		// dependents maps each node to the nodes that depend on it.
		dependents map[K][]K
		// nodes tracks all nodes in insertion order.
		nodes []K
		index map[K]int
	}
)

func (e *CycleError[K]) Error() string {
	parts := make([]string, len(e.Nodes))
	for i, n := range e.Nodes {
		parts[i] = string(n)
	}
	return fmt.Sprintf("dependency cycle detected among: %s", strings.Join(parts, ", "))
}

// New creates an empty Graph.
func New[K ~string]() *Graph[K] {
	return &Graph[K]{
		deps:       make(map[K][]K),
		dependents: make(map[K][]K),
		index:      make(map[K]int),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph[K]) AddNode(n K) {
	if _, ok := g.index[n]; ok {
		return
	}
	g.index[n] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// AddDependency records that node depends on dep. Both are added if absent;
// repeated edges are ignored.
func (g *Graph[K]) AddDependency(node, dep K) {
	g.AddNode(node)
	g.AddNode(dep)
	for _, d := range g.deps[node] {
		if d == dep {
			return
		}
	}
	g.deps[node] = append(g.deps[node], dep)
	g.dependents[dep] = append(g.dependents[dep], node)
}

// Len returns the number of nodes.
func (g *Graph[K]) Len() int { return len(g.nodes) }

// Dependencies returns the direct dependencies of node in the order they were added.
func (g *Graph[K]) Dependencies(node K) []K {
	return append([]K(nil), g.deps[node]...)
}

// Order returns the nodes dependencies-first using Kahn's algorithm.
func (g *Graph[K]) Order() ([]K, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}
	layers, err := g.Layers()
	if err != nil {
		return nil, err
	}
	order := make([]K, 0, len(g.nodes))
	for _, layer := range layers {
		order = append(order, layer...)
	}
	return order, nil
}

// Layers groups nodes by depth: layer 0 holds nodes without dependencies,
// layer n holds nodes whose deepest dependency is in layer n-1. Within a
// layer nodes keep insertion order.
func (g *Graph[K]) Layers() ([][]K, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	pending := make(map[K]int, len(g.nodes))
	var ready []K
	for _, n := range g.nodes {
		pending[n] = len(g.deps[n])
		if pending[n] == 0 {
			ready = append(ready, n)
		}
	}

	var layers [][]K
	placed := 0
	for len(ready) > 0 {
		layers = append(layers, ready)
		placed += len(ready)

		var next []K
		for _, n := range ready {
			for _, d := range g.dependents[n] {
				pending[d]--
				if pending[d] == 0 {
					next = append(next, d)
				}
			}
		}
		g.sortByInsertion(next)
		ready = next
	}

	if placed != len(g.nodes) {
		var stuck []K
		for _, n := range g.nodes {
			if pending[n] > 0 {
				stuck = append(stuck, n)
			}
		}
		return nil, &CycleError[K]{Nodes: stuck}
	}
	return layers, nil
}

func (g *Graph[K]) sortByInsertion(ns []K) {
	// insertion sort: layers are small
	for i := 1; i < len(ns); i++ {
		for j := i; j > 0 && g.index[ns[j]] < g.index[ns[j-1]]; j-- {
			ns[j], ns[j-1] = ns[j-1], ns[j]
		}
	}
}
