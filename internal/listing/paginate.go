package listing

import "find-usce-backend/internal/models"

type Page struct {
	Programs   []models.Program
	Page       int
	TotalPages int
}

// TotalPages is ceil(total/pageSize)
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate slices one 1-based page out of programs. A page outside
// [1, TotalPages] is empty, not an error.
func Paginate(programs []models.Program, page, pageSize int) Page {
	totalPages := TotalPages(len(programs), pageSize)
	if page < 1 || page > totalPages {
		return Page{Programs: []models.Program{}, Page: page, TotalPages: totalPages}
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(programs))

	return Page{
		Programs:   programs[start:end:end],
		Page:       page,
		TotalPages: totalPages,
	}
}
