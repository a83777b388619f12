package folio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrResourceCycle is returned when the ordering constraints between
// resources form a cycle. It always indicates a misconfiguration: some
// resource declares it must render before another resource that must
// itself render before the first. The error text lists the resources and
// remaining edges involved.
var ErrResourceCycle = errors.New("resource cycle detected")

// graph is a directed acyclic graph of resources, used to satisfy the
// ordering constraints of CSS and JavaScript assets. An edge from node A
// to node B means A depends on B: B renders first.
type graph[Node resource[Node]] struct {
	nodes []Node

	// edgesFrom indexes edges by the depending node, edgesTo by the
	// node depended on. Both are kept so the topological walk can
	// follow and clear edges from either end.
	edgesFrom map[int]map[int]struct{}
	edgesTo   map[int]map[int]struct{}
}

// buildGraph assembles resources into a graph. Each group is one
// component's declarations of one resource kind; resources within a group
// get implicit edges preserving their declaration order, unless they opt
// out. After all nodes are placed, every node's explicit relation
// calculators are consulted against every other node.
func buildGraph[Node resource[Node]](ctx context.Context, groups [][]Node) graph[Node] {
	result := graph[Node]{
		edgesFrom: map[int]map[int]struct{}{},
		edgesTo:   map[int]map[int]struct{}{},
	}
	for _, group := range groups {
		prior := -1
		for _, node := range group {
			if slices.ContainsFunc(result.nodes, node.equal) {
				continue
			}
			result.nodes = append(result.nodes, node)
			if !node.implicitlyOrdered() {
				continue
			}
			pos := len(result.nodes) - 1
			if prior >= 0 {
				result.link(pos, prior)
			}
			prior = pos
		}
	}
	for pos, node := range result.nodes {
		for otherPos, other := range result.nodes {
			if pos == otherPos {
				continue
			}
			switch node.relationTo(ctx, other) {
			case ResourceRelationshipAfter:
				result.link(pos, otherPos)
			case ResourceRelationshipBefore:
				result.link(otherPos, pos)
			case ResourceRelationshipNeutral:
				// no constraint between these two
			}
		}
	}
	return result
}

// link records that from depends on to, meaning to renders first.
func (g *graph[Node]) link(from, to int) {
	if g.edgesFrom[from] == nil {
		g.edgesFrom[from] = map[int]struct{}{}
	}
	if g.edgesTo[to] == nil {
		g.edgesTo[to] = map[int]struct{}{}
	}
	g.edgesFrom[from][to] = struct{}{}
	g.edgesTo[to][from] = struct{}{}
}

// sorted returns the graph's resources in render order: dependencies
// first, ties broken by each resource's sortKey so the order is stable
// across renders. It returns ErrResourceCycle if the constraints can't be
// satisfied.
func (g graph[Node]) sorted(_ context.Context) ([]Node, error) {
	// the walk consumes edges, so work on copies
	edgesFrom := make(map[int]map[int]struct{}, len(g.edgesFrom))
	for from, tos := range g.edgesFrom {
		edgesFrom[from] = make(map[int]struct{}, len(tos))
		for to := range tos {
			edgesFrom[from][to] = struct{}{}
		}
	}
	edgesTo := make(map[int]map[int]struct{}, len(g.edgesTo))
	for to, froms := range g.edgesTo {
		edgesTo[to] = make(map[int]struct{}, len(froms))
		for from := range froms {
			edgesTo[to][from] = struct{}{}
		}
	}

	byKey := func(a, b int) int {
		return strings.Compare(g.nodes[a].sortKey(), g.nodes[b].sortKey())
	}
	ready := make([]int, 0, len(g.nodes))
	for pos := range g.nodes {
		if len(edgesFrom[pos]) < 1 {
			ready = append(ready, pos)
		}
	}
	slices.SortFunc(ready, byKey)

	results := make([]Node, 0, len(g.nodes))
	for len(ready) > 0 {
		pos := ready[0]
		ready = ready[1:]
		results = append(results, g.nodes[pos])
		freed := false
		for dependent := range edgesTo[pos] {
			delete(edgesFrom[dependent], pos)
			if len(edgesFrom[dependent]) < 1 {
				delete(edgesFrom, dependent)
				ready = append(ready, dependent)
				freed = true
			}
		}
		delete(edgesTo, pos)
		if freed {
			slices.SortFunc(ready, byKey)
		}
	}

	if len(results) < len(g.nodes) {
		return results, fmt.Errorf("%w: %s", ErrResourceCycle, describeCycle(g.nodes, edgesFrom))
	}
	return results, nil
}

// describeCycle formats the unsatisfiable remainder of a graph for the
// ErrResourceCycle error text.
func describeCycle[Node resource[Node]](nodes []Node, edgesFrom map[int]map[int]struct{}) string {
	var edges, resources []string
	for from, tos := range edgesFrom {
		if len(tos) < 1 {
			continue
		}
		var targets []string
		for to := range tos {
			targets = append(targets, strconv.Itoa(to))
		}
		slices.Sort(targets)
		edges = append(edges, fmt.Sprintf("%d->%s", from, strings.Join(targets, ",")))
	}
	slices.Sort(edges)
	for _, node := range nodes {
		resources = append(resources, node.describe())
	}
	return fmt.Sprintf("edges=[%s], resources=[%s]", strings.Join(edges, "; "), strings.Join(resources, ", "))
}
