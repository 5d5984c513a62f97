package model

// Symptom is reference data maintained through the admin CRUD surface.
type Symptom struct {
	Base
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	Category    *string `json:"category,omitempty" db:"category"`
}

type CreateSymptomRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Category    *string `json:"category"`
}

type UpdateSymptomRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}
