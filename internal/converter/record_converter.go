package converter

import (
	"go-healthcare-records/internal/delivery/dto"
	"go-healthcare-records/internal/domain/entity"
)

// Sanitize returns a copy of rec that is safe to expose: user password hashes are dropped.
func Sanitize(rec entity.Record) entity.Record {
	if rec == nil {
		return nil
	}
	if u, ok := rec.(*entity.User); ok {
		c := *u
		c.Password = ""
		return &c
	}
	return rec
}

// SanitizeAll applies Sanitize to every record.
func SanitizeAll(records []entity.Record) []entity.Record {
	out := make([]entity.Record, len(records))
	for i, rec := range records {
		out[i] = Sanitize(rec)
	}
	return out
}

// ChangesToDeleteResponse splits the changes of a delete into removed and nullified rows.
func ChangesToDeleteResponse(changes []entity.Change) *dto.DeleteResponse {
	resp := &dto.DeleteResponse{Deleted: []dto.RecordRef{}}
	for _, c := range changes {
		ref := dto.RecordRef{Kind: c.Kind, ID: c.ID}
		switch c.Op {
		case entity.OpDelete:
			resp.Deleted = append(resp.Deleted, ref)
		case entity.OpUpdate:
			resp.Nullified = append(resp.Nullified, ref)
		}
	}
	return resp
}
