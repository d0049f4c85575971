package product

import (
	"strconv"
	"strings"
)

// ListQuery holds normalized pagination, sorting and filter parameters for
// listing catalog products.
type ListQuery struct {
	Page      int
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string

	Status   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	MinStock *int
	MaxStock *int
	Tags     []string
	Q        string
}

var productSortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"stock":     "stock",
	"title":     "title",
	"soldCount": "sold_count",
}

// BuildListQuery normalizes raw query-string values. Page and limit are
// clamped (limit to [1,100]), sortBy goes through an allowlist with
// newest-first as the fallback, and tags accept a comma-separated any-match
// list.
func BuildListQuery(raw map[string]string) ListQuery {
	page := toInt(raw["page"], 1)
	if page < 1 {
		page = 1
	}
	limit := toInt(raw["limit"], 10)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	sortBy, ok := productSortColumns[raw["sortBy"]]
	if !ok {
		sortBy = "created_at"
	}
	order := "DESC"
	if raw["sortOrder"] == "asc" {
		order = "ASC"
	}

	q := ListQuery{
		Page:      page,
		Limit:     limit,
		Offset:    (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: order,
		Status:    raw["status"],
		Category:  raw["category"],
		Q:         strings.TrimSpace(raw["q"]),
	}

	if v := raw["minPrice"]; v != "" {
		f := float64(toInt(v, 0))
		q.MinPrice = &f
	}
	if v := raw["maxPrice"]; v != "" {
		f := float64(toInt(v, 999999999))
		q.MaxPrice = &f
	}
	if v := raw["minStock"]; v != "" {
		n := toInt(v, 0)
		q.MinStock = &n
	}
	if v := raw["maxStock"]; v != "" {
		n := toInt(v, 999999999)
		q.MaxStock = &n
	}
	if raw["tags"] != "" {
		for _, t := range strings.Split(raw["tags"], ",") {
			if t = strings.TrimSpace(t); t != "" {
				q.Tags = append(q.Tags, t)
			}
		}
	}
	return q
}

func toInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
