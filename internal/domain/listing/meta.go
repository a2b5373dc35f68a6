package listing

// Meta is the pagination envelope section. It is derived from the query and
// the counted total on every request, never stored.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewMeta computes pagination metadata. totalPages is ceil(total/limit) and 0
// for an empty result; hasNext/hasPrev stay consistent even when the
// requested page lies beyond the last one.
func NewMeta(page, limit int, total int64) Meta {
	totalPages := 0
	if total > 0 && limit > 0 {
		totalPages = int(total) / limit
		if int(total)%limit > 0 {
			totalPages++
		}
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
