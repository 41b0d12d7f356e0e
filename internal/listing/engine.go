package listing

import (
	"find-usce-backend/internal/models"
)

type Result struct {
	Programs   []models.Program `json:"programs"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	PageSize   int              `json:"pageSize"`
}

// Engine runs queries against a read-only program collection
type Engine struct {
	programs []models.Program
	pageSize int
}

func NewEngine(programs []models.Program) *Engine {
	return &Engine{programs: programs, pageSize: PageSize}
}

// Query filters, sorts and pages the collection. An empty sort key sorts
// by name.
func (e *Engine) Query(q Query) Result {
	key := q.Sort
	if key == "" {
		key = SortByName
	}

	matched := Sort(Filter(e.programs, q), key)
	page := Paginate(matched, q.Page, e.pageSize)

	return Result{
		Programs:   page.Programs,
		Total:      len(matched),
		Page:       page.Page,
		TotalPages: page.TotalPages,
		PageSize:   e.pageSize,
	}
}
