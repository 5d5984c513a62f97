package model

// Graph node kinds
const (
	NodeTypeSymptom   = "symptom"
	NodeTypeDisease   = "disease"
	NodeTypeTreatment = "treatment"
)

// Graph edge kinds
const (
	EdgeTypeIndicates = "indicates"
	EdgeTypeTreats    = "treats"
)

type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Size  int    `json:"size"`
}

type GraphEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
	Type   string  `json:"type"`
}

type GraphStats struct {
	TotalNodes          int     `json:"total_nodes"`
	TotalEdges          int     `json:"total_edges"`
	SymptomNodes        int     `json:"symptom_nodes"`
	DiseaseNodes        int     `json:"disease_nodes"`
	TreatmentNodes      int     `json:"treatment_nodes"`
	AvgDegree           float64 `json:"avg_degree"`
	Density             float64 `json:"density"`
	ConnectedComponents int     `json:"connected_components"`
}

type GraphRequest struct {
	Symptoms []string `json:"symptoms"`
	Diseases []string `json:"diseases"`
}

type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
	Stats GraphStats  `json:"stats"`
}
