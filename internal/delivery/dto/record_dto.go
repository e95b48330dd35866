package dto

import "go-healthcare-records/internal/domain/entity"

// RecordListResponse is one page of records of a single kind.
type RecordListResponse struct {
	Kind    entity.Kind     `json:"kind"`
	Records []entity.Record `json:"records"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Total   int64           `json:"total"`
}

// DeleteResponse lists every row removed or nullified by a delete.
type DeleteResponse struct {
	Deleted   []RecordRef `json:"deleted"`
	Nullified []RecordRef `json:"nullified,omitempty"`
}

type RecordRef struct {
	Kind entity.Kind `json:"kind"`
	ID   int64       `json:"id"`
}
