package booking

// Page описывает одну страницу элементов.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`     // номер страницы (с 1)
	PageSize int   `json:"pageSize"` // количество элементов на странице
	Total    int64 `json:"total"`    // общее количество элементов
	HasNext  bool  `json:"hasNext"`
	HasPrev  bool  `json:"hasPrev"`
}

const defaultPageSize = 10

// NormalizePage приводит параметры пагинации к дефолтам
// и возвращает offset для запроса в хранилище.
func NormalizePage(page, pageSize int) (p, size, offset int) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	return page, pageSize, (page - 1) * pageSize
}

// NewPage собирает страницу с метаданными по known total.
func NewPage[T any](items []T, page, pageSize int, total int64) Page[T] {
	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasPrev:  page > 1,
		HasNext:  int64(page*pageSize) < total,
	}
}
