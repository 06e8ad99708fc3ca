// Package services holds domain logic that spans more than one aggregate.
package services

import (
	"fmt"
	"strings"

	"pipeline-builder/domain/core/aggregates"
)

// Analysis is the topology summary of a pipeline document
type Analysis struct {
	NumNodes int
	NumEdges int
	IsDAG    bool
	// Issues lists structural problems that did not stop the analysis, such as
	// edges pointing at nodes that are not in the document.
	Issues []string
}

// Error joins the issues into one message, or returns "" when there are none
func (a Analysis) Error() string {
	return strings.Join(a.Issues, "; ")
}

// AnalyzePipeline counts nodes and edges and checks acyclicity with Kahn's
// algorithm. Edges whose endpoints are not nodes of the document are counted
// but left out of the cycle check. An empty document is a DAG.
//
// The graph is a DAG only when the topological sort visits as many nodes as the
// document lists, so duplicate node ids make it fail.
func AnalyzePipeline(doc aggregates.PipelineDocument) Analysis {
	a := Analysis{
		NumNodes: len(doc.Nodes),
		NumEdges: len(doc.Edges),
	}
	if len(doc.Nodes) == 0 {
		a.IsDAG = true
		return a
	}

	order := make([]string, 0, len(doc.Nodes))
	adjacency := make(map[string][]string, len(doc.Nodes))
	inDegree := make(map[string]int, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if _, dup := inDegree[n.ID]; dup {
			a.Issues = append(a.Issues, fmt.Sprintf("duplicate node id %q", n.ID))
			continue
		}
		order = append(order, n.ID)
		adjacency[n.ID] = nil
		inDegree[n.ID] = 0
	}

	for _, e := range doc.Edges {
		_, srcOK := adjacency[e.Source]
		_, dstOK := inDegree[e.Target]
		if !srcOK || !dstOK {
			a.Issues = append(a.Issues, fmt.Sprintf("edge %q references unknown node", edgeName(e)))
			continue
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		inDegree[e.Target]++
	}

	queue := make([]string, 0, len(order))
	for _, id := range order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range adjacency[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	a.IsDAG = visited == len(doc.Nodes)
	return a
}

func edgeName(e aggregates.EdgeRecord) string {
	if e.ID != "" {
		return e.ID
	}
	return e.Source + "->" + e.Target
}
