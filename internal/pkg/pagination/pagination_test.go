package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	p := Normalize(0, 0)
	if p.Page != 1 {
		t.Fatalf("page: want=1 got=%d", p.Page)
	}
	if p.Limit != 25 {
		t.Fatalf("limit: want=25 got=%d", p.Limit)
	}
	if p.Skip != 0 {
		t.Fatalf("skip: want=0 got=%d", p.Skip)
	}
}

func TestNormalizeSkip(t *testing.T) {
	p := Normalize(3, 10)
	if p.Skip != 20 {
		t.Fatalf("skip: want=20 got=%d", p.Skip)
	}
}

func TestNormalizeClamps(t *testing.T) {
	cases := []struct {
		name            string
		page, limit     int
		wantPage, wantL int
	}{
		{"negative page", -5, 10, 1, 10},
		{"zero limit", 2, 0, 2, DefaultLimit},
		{"negative limit", 2, -1, 2, DefaultLimit},
		{"limit over max", 1, 500, 1, MaxLimit},
		{"limit at max", 1, MaxLimit, 1, MaxLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Normalize(tc.page, tc.limit)
			if p.Page != tc.wantPage || p.Limit != tc.wantL {
				t.Fatalf("want page=%d limit=%d, got page=%d limit=%d",
					tc.wantPage, tc.wantL, p.Page, p.Limit)
			}
		})
	}
}

func TestBuildPagedTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 10, 10},
		{101, 10, 11},
	}
	for _, tc := range cases {
		got := BuildPaged([]int{}, tc.total, 1, tc.limit)
		if got.Meta.TotalPages != tc.want {
			t.Fatalf("total=%d limit=%d: totalPages want=%d got=%d",
				tc.total, tc.limit, tc.want, got.Meta.TotalPages)
		}
	}
}

func TestBuildPagedNeverNilData(t *testing.T) {
	got := BuildPaged[string](nil, 0, 1, 20)
	if got.Data == nil {
		t.Fatalf("data: want empty slice, got nil")
	}
	if len(got.Data) != 0 {
		t.Fatalf("data: want empty, got %v", got.Data)
	}
}
