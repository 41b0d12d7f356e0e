// Package listing filters, sorts and pages the program collection.
// Every operation is a pure function of its input; the source slice is
// never reordered or modified.
package listing

// PageSize is the number of programs on one listing page
const PageSize = 24

// All is the select value the browser sends for "no constraint"
const All = "All"

type SortKey string

const (
	SortByName      SortKey = "name"
	SortByState     SortKey = "state"
	SortByAccepting SortKey = "accepting"
)

// Query is a filter/sort/page specification. Zero values mean no
// constraint; Page is 1-based.
type Query struct {
	Search    string
	State     string
	USMLEStep string
	Visa      string
	LOR       *bool
	Accepting *bool
	Sort      SortKey
	Page      int
}
