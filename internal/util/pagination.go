package util

import "github.com/mkravchenko/marketplace/internal/constants"

type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > constants.MaxPageSize {
		size = constants.DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}

func Paginate(total, page, limit int) Pagination {
	if limit < 1 {
		limit = constants.DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	totalPages := (total + limit - 1) / limit
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
