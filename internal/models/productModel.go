package models

// ProductQuery agrupa filtros, orden y paginación del listado de productos
type ProductQuery struct {
	Page       int
	PageSize   int
	Search     string
	Category   string
	Material   string
	Color      string
	MinPrice   int64
	MaxPrice   int64
	Active     *bool
	Sort       []SortField
	Summary    bool
	PublicOnly bool
}

// SortField es un campo de ordenamiento; Desc invierte el orden
type SortField struct {
	Field string
	Desc  bool
}

// Page es la respuesta paginada genérica
type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
}

// NewPage arma la página calculando el total de páginas
func NewPage[T any](data []T, total int64, page, pageSize int) Page[T] {
	if data == nil {
		data = make([]T, 0)
	}
	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
}

func totalPages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 1
	}
	tp := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		tp++
	}
	return tp
}
