package service

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageParams aplica los valores por defecto de paginación
func pageParams(page, pageSize int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return page, pageSize
}
