package graph

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

type fakeDiseaseRepo struct {
	repository.DiseaseRepository
	catalog []model.Disease
}

func (f *fakeDiseaseRepo) ListAll(ctx context.Context) ([]model.Disease, error) {
	return f.catalog, nil
}

func testCatalog() []model.Disease {
	return []model.Disease{
		{
			Name:      "Influenza",
			Symptoms:  pq.StringArray{"fever", "cough", "fatigue"},
			Treatment: "Rest and fluids",
			Severity:  model.SeverityMedium,
		},
		{
			Name:      "Migraine",
			Symptoms:  pq.StringArray{"headache", "nausea"},
			Treatment: "Pain relievers",
			Severity:  model.SeverityMedium,
		},
	}
}

func TestBuildRequiresInput(t *testing.T) {
	svc := NewService(&fakeDiseaseRepo{})

	_, err := svc.Build(context.Background(), &model.GraphRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestBuildNodesCarryStyling(t *testing.T) {
	svc := NewService(&fakeDiseaseRepo{catalog: testCatalog()})

	g, err := svc.Build(context.Background(), &model.GraphRequest{
		Symptoms: []string{"fever"},
		Diseases: []string{"Influenza"},
	})
	require.NoError(t, err)

	byID := map[string]model.GraphNode{}
	for _, node := range g.Nodes {
		byID[node.ID] = node
	}

	symptom, ok := byID["symptom_fever"]
	require.True(t, ok)
	assert.Equal(t, "#3B82F6", symptom.Color)
	assert.Equal(t, 20, symptom.Size)
	assert.Equal(t, "Fever", symptom.Label)

	diseaseNode, ok := byID["disease_influenza"]
	require.True(t, ok)
	assert.Equal(t, "#EF4444", diseaseNode.Color)
	assert.Equal(t, 30, diseaseNode.Size)

	treatment, ok := byID["treatment_rest_and_fluids"]
	require.True(t, ok)
	assert.Equal(t, "#10B981", treatment.Color)
	assert.Equal(t, 25, treatment.Size)
}

func TestBuildEdgeWeights(t *testing.T) {
	svc := NewService(&fakeDiseaseRepo{catalog: testCatalog()})

	g, err := svc.Build(context.Background(), &model.GraphRequest{
		Symptoms: []string{"fever", "headache"},
		Diseases: []string{"Influenza"},
	})
	require.NoError(t, err)

	var indicates []model.GraphEdge
	var treats []model.GraphEdge
	for _, edge := range g.Edges {
		switch edge.Type {
		case model.EdgeTypeIndicates:
			indicates = append(indicates, edge)
		case model.EdgeTypeTreats:
			treats = append(treats, edge)
		}
	}

	// Defining symptom links strongly; the unrelated one falls below the
	// cutoff and is dropped.
	require.Len(t, indicates, 1)
	assert.Equal(t, "symptom_fever", indicates[0].Source)
	assert.Equal(t, strongIndication, indicates[0].Weight)

	require.Len(t, treats, 1)
	assert.Equal(t, "disease_influenza", treats[0].Source)
	assert.Equal(t, treatsWeight, treats[0].Weight)
}

func TestBuildUnknownDiseaseGetsDefaultTreatment(t *testing.T) {
	svc := NewService(&fakeDiseaseRepo{catalog: testCatalog()})

	g, err := svc.Build(context.Background(), &model.GraphRequest{
		Diseases: []string{"Mystery Illness"},
	})
	require.NoError(t, err)

	found := false
	for _, node := range g.Nodes {
		if node.Type == model.NodeTypeTreatment {
			assert.Equal(t, "Medical Consultation", node.Label)
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuildStats(t *testing.T) {
	svc := NewService(&fakeDiseaseRepo{catalog: testCatalog()})

	g, err := svc.Build(context.Background(), &model.GraphRequest{
		Symptoms: []string{"fever", "headache"},
		Diseases: []string{"Influenza", "Migraine"},
	})
	require.NoError(t, err)

	assert.Equal(t, len(g.Nodes), g.Stats.TotalNodes)
	assert.Equal(t, len(g.Edges), g.Stats.TotalEdges)
	assert.Equal(t, 2, g.Stats.SymptomNodes)
	assert.Equal(t, 2, g.Stats.DiseaseNodes)
	assert.Equal(t, 2, g.Stats.TreatmentNodes)
	assert.Greater(t, g.Stats.AvgDegree, 0.0)
	assert.Greater(t, g.Stats.Density, 0.0)
	assert.GreaterOrEqual(t, g.Stats.ConnectedComponents, 1)
}

func TestBuildDeduplicatesTreatmentNodes(t *testing.T) {
	catalog := testCatalog()
	catalog[1].Treatment = "Rest and fluids"
	svc := NewService(&fakeDiseaseRepo{catalog: catalog})

	g, err := svc.Build(context.Background(), &model.GraphRequest{
		Diseases: []string{"Influenza", "Migraine"},
	})
	require.NoError(t, err)

	treatments := 0
	for _, node := range g.Nodes {
		if node.Type == model.NodeTypeTreatment {
			treatments++
		}
	}
	assert.Equal(t, 1, treatments)

	// Both diseases share the single treatment node.
	treatEdges := 0
	for _, edge := range g.Edges {
		if edge.Type == model.EdgeTypeTreats {
			treatEdges++
			assert.Equal(t, "treatment_rest_and_fluids", edge.Target)
		}
	}
	assert.Equal(t, 2, treatEdges)
}
