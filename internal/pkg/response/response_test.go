package response

import "testing"

func TestNewMeta(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		limit     int
		page      int
		pageCount int
		hasMore   bool
	}{
		{"middle page", 45, 20, 2, 3, true},
		{"last page", 45, 20, 3, 3, false},
		{"empty set", 0, 20, 1, 1, false},
		{"exact fit", 40, 20, 2, 2, false},
		{"single row", 1, 10, 1, 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := NewMeta(tc.total, tc.limit, tc.page)
			if meta.PageCount != tc.pageCount {
				t.Errorf("pageCount = %d, want %d", meta.PageCount, tc.pageCount)
			}
			if meta.HasMore != tc.hasMore {
				t.Errorf("hasMore = %v, want %v", meta.HasMore, tc.hasMore)
			}
			if meta.Total != tc.total || meta.Limit != tc.limit || meta.Page != tc.page {
				t.Errorf("meta echo mismatch: %+v", meta)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	limit, offset, page := Pagination("20", "2", 10)
	if limit != 20 || offset != 20 || page != 2 {
		t.Fatalf("got limit=%d offset=%d page=%d", limit, offset, page)
	}

	limit, offset, page = Pagination("", "", 10)
	if limit != 10 || offset != 0 || page != 1 {
		t.Fatalf("defaults: got limit=%d offset=%d page=%d", limit, offset, page)
	}

	limit, _, _ = Pagination("500", "1", 10)
	if limit != 100 {
		t.Fatalf("limit cap: got %d, want 100", limit)
	}

	limit, offset, page = Pagination("abc", "-3", 10)
	if limit != 10 || offset != 0 || page != 1 {
		t.Fatalf("garbage input: got limit=%d offset=%d page=%d", limit, offset, page)
	}
}
