package pagination

import (
	"strconv"

	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const DefaultPage = 1

// Limits bounds the page size of one resource.
type Limits struct {
	Default int
	Max     int
}

// Per-resource page sizes.
var (
	Standard = Limits{Default: 10, Max: 100}
	Products = Limits{Default: 8, Max: 50}
	Articles = Limits{Default: 6, Max: 50}
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// FromContext extracts page and page_size from the request and clamps them to
// limits. An out-of-range page_size falls back to the default.
func FromContext(c *gin.Context, limits Limits) Query {
	page := parseIntOr(c.Query("page"), DefaultPage)
	raw := c.Query("page_size")
	if raw == "" {
		raw = c.Query("size")
	}
	size := parseIntOr(raw, limits.Default)

	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = limits.Default
	}
	if size > limits.Max {
		size = limits.Max
	}

	return Query{Page: page, Size: size}
}

// Paginate applies limit/offset to a GORM query and returns the pagination metadata.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}

	offset := (q.Page - 1) * q.Size
	if err := db.Offset(offset).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}
	if *dest == nil {
		*dest = []T{}
	}

	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))

	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}, nil
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
