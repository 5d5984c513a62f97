package model

import (
	"github.com/lib/pq"
)

// TermExplanation is a stored definition of a medical term.
type TermExplanation struct {
	Term         string         `json:"term" db:"term"`
	Definition   string         `json:"definition" db:"definition"`
	Source       string         `json:"source" db:"source"`
	RelatedTerms pq.StringArray `json:"related_terms" db:"related_terms"`
}
