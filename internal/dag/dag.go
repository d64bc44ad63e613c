// Package dag provides the precedence graph used to validate the transform
// pipeline: nodes are stage names, edges are must-precede constraints. The
// graph supports cycle detection and checking a proposed total order against
// the declared constraints.
package dag

import "fmt"

type node struct {
	id         string
	deps       map[string]*node
	dependents map[string]*node
}

// Graph is a directed graph of named nodes. An edge from A to B means A must
// come before B.
type Graph struct {
	nodes map[string]*node
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
}

// AddEdge records that fromID must precede toID. An error is returned if
// either node does not exist or if the edge would be self-referential.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential constraint not allowed: %s -> %s", fromID, fromID)
	}

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("constraint references unknown node: %s", fromID)
	}
	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("constraint references unknown node: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode
	return nil
}

// DetectCycles checks the graph for cycles using depth-first search with the
// classic permanent/temporary marking. A non-nil error names a node involved
// in the first cycle found.
func (g *Graph) DetectCycles() error {
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("cycle detected involving node '%s'", n.id)
		}

		temporary[n.id] = true
		for _, dependent := range n.dependents {
			if err := visit(dependent); err != nil {
				return err
			}
		}
		delete(temporary, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, n := range g.nodes {
		if !permanent[n.id] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// VerifyOrder checks that the given total order contains every node exactly
// once and respects every must-precede edge.
func (g *Graph) VerifyOrder(order []string) error {
	position := make(map[string]int, len(order))
	for i, id := range order {
		if _, dup := position[id]; dup {
			return fmt.Errorf("node '%s' appears twice in the order", id)
		}
		if _, ok := g.nodes[id]; !ok {
			return fmt.Errorf("order names unknown node '%s'", id)
		}
		position[id] = i
	}
	if len(position) != len(g.nodes) {
		for id := range g.nodes {
			if _, ok := position[id]; !ok {
				return fmt.Errorf("node '%s' is missing from the order", id)
			}
		}
	}

	for _, n := range g.nodes {
		for depID := range n.dependents {
			if position[n.id] >= position[depID] {
				return fmt.Errorf("order violates constraint: '%s' must precede '%s'", n.id, depID)
			}
		}
	}
	return nil
}
