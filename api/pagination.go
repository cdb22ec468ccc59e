package api

import "encoding/json"

// Pagination is the one canonical pagination record downstream code sees.
// The backend reports paging metadata in two shapes — flat total/page/limit
// fields beside the items, or a nested `pagination` object — and both are
// normalized here, at the client boundary, immediately on receipt.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// HasNext reports whether a page after the current one exists.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// pagedEnvelope captures both wire shapes side by side so one unmarshal
// sees whichever fields the server sent.
type pagedEnvelope struct {
	Total *int `json:"total"`
	Page  *int `json:"page"`
	Limit *int `json:"limit"`

	Pagination *struct {
		Total      int `json:"total"`
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

// normalizePagination reduces either wire shape to the canonical record.
// The nested shape takes precedence when both are present. requestedPage
// and requestedLimit fill holes the flat shape leaves open; TotalPages is
// derived (never below 1) whenever the server does not state it, in either
// shape — a nested record without totalPages must not read as "no next
// page".
func normalizePagination(raw json.RawMessage, requestedPage, requestedLimit int) Pagination {
	var pe pagedEnvelope
	_ = json.Unmarshal(raw, &pe)

	if pe.Pagination != nil {
		p := Pagination{
			Total:      pe.Pagination.Total,
			Page:       pe.Pagination.Page,
			Limit:      pe.Pagination.Limit,
			TotalPages: pe.Pagination.TotalPages,
		}
		if p.Limit < 1 {
			p.Limit = requestedLimit
		}
		if p.TotalPages < 1 {
			p.TotalPages = derivedTotalPages(p.Total, p.Limit)
		}
		return p
	}

	p := Pagination{Page: requestedPage, Limit: requestedLimit}
	if pe.Total != nil {
		p.Total = *pe.Total
	}
	if pe.Page != nil {
		p.Page = *pe.Page
	}
	if pe.Limit != nil {
		p.Limit = *pe.Limit
	}
	p.TotalPages = derivedTotalPages(p.Total, p.Limit)
	return p
}

func derivedTotalPages(total, limit int) int {
	if limit < 1 {
		limit = 1
	}
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return pages
}
