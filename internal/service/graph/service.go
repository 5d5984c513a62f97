package graph

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	"github.com/mednex-health/mednex-api/internal/service/matcher"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

// Node styling consumed by the frontend renderer.
var nodeColors = map[string]string{
	model.NodeTypeSymptom:   "#3B82F6",
	model.NodeTypeDisease:   "#EF4444",
	model.NodeTypeTreatment: "#10B981",
}

var nodeSizes = map[string]int{
	model.NodeTypeSymptom:   20,
	model.NodeTypeDisease:   30,
	model.NodeTypeTreatment: 25,
}

const (
	strongIndication  = 0.8
	partialIndication = 0.6
	weakIndication    = 0.2
	indicationCutoff  = 0.3

	treatsWeight     = 0.8
	defaultTreatment = "Medical consultation"
)

// Service shapes matcher output into a renderable knowledge graph of
// symptoms, diseases, and treatments.
type Service struct {
	diseases repository.DiseaseRepository
}

func NewService(diseases repository.DiseaseRepository) *Service {
	return &Service{diseases: diseases}
}

// Build assembles nodes and weighted edges for the given symptoms and
// diseases. Edge weights come from the reference catalog; symptom-disease
// links below the cutoff are dropped.
func (s *Service) Build(ctx context.Context, req *model.GraphRequest) (*model.Graph, error) {
	if len(req.Symptoms) == 0 && len(req.Diseases) == 0 {
		return nil, apperrors.Validation("at least one symptom or disease is required", nil)
	}

	catalog, err := s.diseases.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	byName := make(map[string]model.Disease, len(catalog))
	for _, disease := range catalog {
		byName[matcher.Normalize(disease.Name)] = disease
	}

	g := newBuilder()

	for _, symptom := range req.Symptoms {
		g.addNode(nodeID(model.NodeTypeSymptom, symptom), title(symptom), model.NodeTypeSymptom)
	}
	for _, disease := range req.Diseases {
		g.addNode(nodeID(model.NodeTypeDisease, disease), title(disease), model.NodeTypeDisease)
	}

	// Disease to treatment edges.
	for _, disease := range req.Diseases {
		treatment := defaultTreatment
		if ref, ok := byName[matcher.Normalize(disease)]; ok && ref.Treatment != "" {
			treatment = ref.Treatment
		}
		treatmentID := nodeID(model.NodeTypeTreatment, treatment)
		g.addNode(treatmentID, title(treatment), model.NodeTypeTreatment)
		g.addEdge(nodeID(model.NodeTypeDisease, disease), treatmentID, treatsWeight, model.EdgeTypeTreats)
	}

	// Symptom to disease edges, weighted by the catalog relationship.
	for _, symptom := range req.Symptoms {
		for _, disease := range req.Diseases {
			weight := indicationWeight(symptom, disease, byName)
			if weight > indicationCutoff {
				g.addEdge(nodeID(model.NodeTypeSymptom, symptom), nodeID(model.NodeTypeDisease, disease), weight, model.EdgeTypeIndicates)
			}
		}
	}

	return g.finish(), nil
}

// indicationWeight grades how strongly a symptom points at a disease:
// a defining symptom scores highest, a partial textual match lower, and
// anything else gets a weak default that falls below the cutoff.
func indicationWeight(symptom, disease string, byName map[string]model.Disease) float64 {
	ref, ok := byName[matcher.Normalize(disease)]
	if !ok {
		return weakIndication
	}

	s := matcher.Normalize(symptom)
	for _, defining := range ref.Symptoms {
		d := matcher.Normalize(defining)
		if d == s {
			return strongIndication
		}
		if strings.Contains(d, s) || strings.Contains(s, d) {
			return partialIndication
		}
	}
	return weakIndication
}

func nodeID(nodeType, label string) string {
	return fmt.Sprintf("%s_%s", nodeType, strings.ReplaceAll(matcher.Normalize(label), " ", "_"))
}

func title(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// builder accumulates unique nodes and edges and derives the summary
// statistics at the end.
type builder struct {
	nodes   []model.GraphNode
	edges   []model.GraphEdge
	nodeIdx map[string]bool
	degree  map[string]int
}

func newBuilder() *builder {
	return &builder{
		nodes:   []model.GraphNode{},
		edges:   []model.GraphEdge{},
		nodeIdx: map[string]bool{},
		degree:  map[string]int{},
	}
}

func (b *builder) addNode(id, label, nodeType string) {
	if b.nodeIdx[id] {
		return
	}
	b.nodeIdx[id] = true
	b.nodes = append(b.nodes, model.GraphNode{
		ID:    id,
		Label: label,
		Type:  nodeType,
		Color: nodeColors[nodeType],
		Size:  nodeSizes[nodeType],
	})
}

func (b *builder) addEdge(source, target string, weight float64, edgeType string) {
	b.edges = append(b.edges, model.GraphEdge{
		Source: source,
		Target: target,
		Weight: weight,
		Type:   edgeType,
	})
	b.degree[source]++
	b.degree[target]++
}

func (b *builder) finish() *model.Graph {
	stats := model.GraphStats{
		TotalNodes: len(b.nodes),
		TotalEdges: len(b.edges),
	}
	for _, node := range b.nodes {
		switch node.Type {
		case model.NodeTypeSymptom:
			stats.SymptomNodes++
		case model.NodeTypeDisease:
			stats.DiseaseNodes++
		case model.NodeTypeTreatment:
			stats.TreatmentNodes++
		}
	}

	n := len(b.nodes)
	if n > 0 {
		var degreeSum int
		for _, d := range b.degree {
			degreeSum += d
		}
		stats.AvgDegree = round2(float64(degreeSum) / float64(n))
	}
	if n > 1 {
		stats.Density = round3(float64(2*len(b.edges)) / float64(n*(n-1)))
	}
	stats.ConnectedComponents = b.components()

	return &model.Graph{
		Nodes: b.nodes,
		Edges: b.edges,
		Stats: stats,
	}
}

// components counts connected components treating edges as undirected.
func (b *builder) components() int {
	adjacency := map[string][]string{}
	for _, edge := range b.edges {
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
		adjacency[edge.Target] = append(adjacency[edge.Target], edge.Source)
	}

	visited := map[string]bool{}
	count := 0
	for _, node := range b.nodes {
		if visited[node.ID] {
			continue
		}
		count++
		stack := []string{node.ID}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[current] {
				continue
			}
			visited[current] = true
			stack = append(stack, adjacency[current]...)
		}
	}
	return count
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
