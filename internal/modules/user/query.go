package user

import "strconv"

// ListQuery holds normalized pagination, sorting and filter parameters
// for listing users.
type ListQuery struct {
	Page      int
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
	Role      string
	Q         string
}

var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"email":     "email",
	"role":      "role",
}

// BuildListQuery normalizes raw query-string values: page/limit are clamped,
// sortBy is checked against an allowlist, and unknown values fall back to
// newest-first.
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

	sortBy, ok := userSortColumns[raw["sortBy"]]
	if !ok {
		sortBy = "created_at"
	}
	order := "DESC"
	if raw["sortOrder"] == "asc" {
		order = "ASC"
	}

	role := ""
	if r, ok := ParseRole(raw["role"]); ok {
		role = string(r)
	}

	return ListQuery{
		Page:      page,
		Limit:     limit,
		Offset:    (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: order,
		Role:      role,
		Q:         raw["q"],
	}
}

func toInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
