package user

import "testing"

func TestBuildListQueryDefaults(t *testing.T) {
	q := BuildListQuery(map[string]string{})
	if q.Page != 1 || q.Limit != 10 || q.Offset != 0 {
		t.Errorf("pagination = %d/%d/%d, want 1/10/0", q.Page, q.Limit, q.Offset)
	}
	if q.SortBy != "created_at" || q.SortOrder != "DESC" {
		t.Errorf("sort = %s %s, want created_at DESC", q.SortBy, q.SortOrder)
	}
}

func TestBuildListQueryClamps(t *testing.T) {
	q := BuildListQuery(map[string]string{"page": "-2", "limit": "5000"})
	if q.Page != 1 {
		t.Errorf("page = %d, want 1", q.Page)
	}
	if q.Limit != 100 {
		t.Errorf("limit = %d, want 100", q.Limit)
	}
}

func TestBuildListQuerySortAllowlist(t *testing.T) {
	q := BuildListQuery(map[string]string{"sortBy": "email", "sortOrder": "asc"})
	if q.SortBy != "email" || q.SortOrder != "ASC" {
		t.Errorf("sort = %s %s, want email ASC", q.SortBy, q.SortOrder)
	}

	q = BuildListQuery(map[string]string{"sortBy": "password_hash; DROP TABLE users"})
	if q.SortBy != "created_at" {
		t.Errorf("sortBy = %s, unknown column must fall back to created_at", q.SortBy)
	}
}

func TestBuildListQueryRoleFilter(t *testing.T) {
	q := BuildListQuery(map[string]string{"role": "manager"})
	if q.Role != "manager" {
		t.Errorf("role = %q, want manager", q.Role)
	}

	q = BuildListQuery(map[string]string{"role": "root"})
	if q.Role != "" {
		t.Errorf("role = %q, unknown role must be ignored", q.Role)
	}
}
