package handler

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// listQuery represents common list/pagination query parameters
type listQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// bindListFilter binds pagination query parameters into a shared.Filter.
// Unknown sort fields are rejected later by the repository whitelist.
func bindListFilter(c *gin.Context) (shared.Filter, error) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return shared.Filter{}, err
	}

	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		filter.OrderDir = q.OrderDir
	}
	filter.Search = q.Search
	return filter, nil
}
