package listing

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"find-usce-backend/internal/models"
)

// Sort returns a stably sorted copy of programs. Unknown keys keep the
// source order.
func Sort(programs []models.Program, key SortKey) []models.Program {
	out := slices.Clone(programs)

	switch key {
	case SortByName:
		// collators keep internal buffers and are not safe to share
		col := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b models.Program) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortByState:
		col := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b models.Program) int {
			return col.CompareString(a.State, b.State)
		})
	case SortByAccepting:
		slices.SortStableFunc(out, func(a, b models.Program) int {
			return rank(b.AcceptingApplications) - rank(a.AcceptingApplications)
		})
	}

	return out
}

func rank(b bool) int {
	if b {
		return 1
	}
	return 0
}
