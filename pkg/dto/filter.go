package dto

type Filter struct {
	Limit          int    `query:"limit"`
	Page           int    `query:"page"`
	Q              string `query:"q"`
	IncludeTrashed bool   `query:"include_trashed"`
}

// Skip translates page/limit paging into a row offset.
func (f Filter) Skip() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type Pagination struct {
	Limit int   `json:"limit"`
	Page  int   `json:"page"`
	Total int64 `json:"total"`
}
