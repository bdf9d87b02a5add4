package handlers

import "testing"

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || limit != 50 {
		t.Fatalf("expected defaults 1/50, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsRejectsGarbage(t *testing.T) {
	for _, tc := range [][2]string{{"0", "10"}, {"abc", "10"}, {"1", "-5"}, {"1", "x"}} {
		if _, _, err := parsePaginationParams(tc[0], tc[1], 20); err == nil {
			t.Errorf("expected error for page=%q limit=%q", tc[0], tc[1])
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, limit, want int64
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 50, 2},
	}
	for _, tc := range cases {
		if got := totalPages(tc.total, tc.limit); got != tc.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}
