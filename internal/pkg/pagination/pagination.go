package pagination

// Shared page/limit normalization and the uniform paged envelope used by
// every list endpoint. Pure, no I/O.

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// Params is the normalized form of caller-supplied page/limit values.
type Params struct {
	Page  int
	Limit int
	Skip  int
}

// Normalize clamps limit to [1, MaxLimit] (DefaultLimit when absent or
// non-positive), clamps page to >= 1, and computes the zero-based offset.
func Normalize(page, limit int) Params {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page < 1 {
		page = 1
	}
	return Params{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type Paged[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// BuildPaged wraps items in the paged envelope. totalPages is never below 1,
// even for an empty result set.
func BuildPaged[T any](items []T, total int64, page, limit int) Paged[T] {
	if items == nil {
		items = []T{}
	}
	if limit < 1 {
		limit = 1
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)
	if totalPages < 1 {
		totalPages = 1
	}
	return Paged[T]{
		Data: items,
		Meta: Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
