package service

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// paginate converts a 1-based page number and page size into limit/offset,
// applying the 1/25 defaults and the size ceiling.
func paginate(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}
