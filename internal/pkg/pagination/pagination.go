// internal/pkg/pagination/pagination.go
package pagination

// Params represents page/limit query parameters
type Params struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

// Normalize clamps page and limit to sane bounds
func (p *Params) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// Offset returns the row offset for the current page
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the envelope returned by every list endpoint
type Page struct {
	Results      interface{} `json:"results"`
	PageNumber   int         `json:"page"`
	Limit        int         `json:"limit"`
	TotalPages   int         `json:"totalPages"`
	TotalResults int64       `json:"totalResults"`
}

// NewPage builds the response envelope for a result slice
func NewPage(results interface{}, params Params, total int64) Page {
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	return Page{
		Results:      results,
		PageNumber:   params.Page,
		Limit:        params.Limit,
		TotalPages:   totalPages,
		TotalResults: total,
	}
}
