// This file contains a thin wrapper around the graph module for
// tracking which competitors have already met.
package core

import (
	"errors"

	"github.com/dominikbraun/graph"
)

// An encounterGraph holds every competitor as a vertex and an
// undirected edge for every pair that has played. Byes add the
// vertex but no edge.
type encounterGraph struct {
	graph.Graph[string, string]
}

func newEncounterGraph(index matchIndex) *encounterGraph {
	g := &encounterGraph{
		Graph: graph.New(graph.StringHash),
	}

	for _, id := range index.competitors() {
		g.addCompetitor(id)
		for _, r := range index[id] {
			if r.IsBye() {
				continue
			}
			g.addCompetitor(r.Opponent)
			g.addEncounter(id, r.Opponent)
		}
	}

	return g
}

func (g *encounterGraph) addCompetitor(id string) {
	err := g.AddVertex(id)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		panic("encounter graph rejected a competitor vertex")
	}
}

func (g *encounterGraph) addEncounter(a, b string) {
	err := g.AddEdge(a, b)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		panic("encounter graph rejected an encounter edge")
	}
}

// HavePlayed reports whether the two competitors have met before.
func (g *encounterGraph) HavePlayed(a, b string) bool {
	_, err := g.Edge(a, b)
	return err == nil
}
