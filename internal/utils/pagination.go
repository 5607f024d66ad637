package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hsmith-dev/Trasker-WebApp/internal/constants"
)

// PaginationParams holds the pagination parameters. A zero Limit means the
// caller asked for every row.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse is the pagination block of a list response. An
// unpaginated list reports page 0 and a single page.
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// Response describes a page of total rows fetched with p.
func (p PaginationParams) Response(total int64) PaginationResponse {
	resp := PaginationResponse{Page: p.Page, Limit: p.Limit, Total: total, Pages: 1}
	if p.Limit > 0 {
		resp.Pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return resp
}

// GetPaginationParams extracts and validates pagination parameters from the
// request. Pagination only applies when page or limit is present.
func GetPaginationParams(c *gin.Context) PaginationParams {
	pageStr, hasPage := c.GetQuery("page")
	limitStr, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return PaginationParams{}
	}

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	return NewPaginationParams(page, limit)
}

// NewPaginationParams clamps page and limit into the accepted range.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
