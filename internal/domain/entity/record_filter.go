package entity

// RecordFilter is a domain-level filter for listing records.
// Used by the usecase layer to avoid coupling with delivery DTOs.
type RecordFilter struct {
	Kind   Kind
	Equals map[string]int64 // foreign key column -> referenced id
	Page   int
	Limit  int
}
