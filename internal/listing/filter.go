package listing

import (
	"slices"
	"strings"

	"find-usce-backend/internal/models"
)

// Predicate reports whether a program satisfies one filter
type Predicate func(p *models.Program) bool

// Predicates returns the active predicates of q. Their order carries no
// meaning: Filter keeps a program only if every predicate holds.
func Predicates(q Query) []Predicate {
	var preds []Predicate

	if q.Search != "" {
		preds = append(preds, matchSearch(strings.ToLower(q.Search)))
	}
	if active(q.State) {
		preds = append(preds, matchState(q.State))
	}
	if active(q.USMLEStep) {
		preds = append(preds, matchUSMLEStep(q.USMLEStep))
	}
	if active(q.Visa) {
		preds = append(preds, matchVisa(q.Visa))
	}
	if q.LOR != nil {
		want := *q.LOR
		preds = append(preds, func(p *models.Program) bool { return p.LOR == want })
	}
	if q.Accepting != nil {
		want := *q.Accepting
		preds = append(preds, func(p *models.Program) bool { return p.AcceptingApplications == want })
	}

	return preds
}

// Filter returns the programs satisfying every active predicate of q, in
// source order. The result never aliases programs.
func Filter(programs []models.Program, q Query) []models.Program {
	return apply(programs, Predicates(q))
}

func apply(programs []models.Program, preds []Predicate) []models.Program {
	out := make([]models.Program, 0, len(programs))
	for i := range programs {
		if matchesAll(&programs[i], preds) {
			out = append(out, programs[i])
		}
	}
	return out
}

func matchesAll(p *models.Program, preds []Predicate) bool {
	for _, pred := range preds {
		if !pred(p) {
			return false
		}
	}
	return true
}

func active(v string) bool {
	return v != "" && v != All
}

func matchSearch(q string) Predicate {
	return func(p *models.Program) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.City), q) ||
			strings.Contains(strings.ToLower(p.State), q) ||
			strings.Contains(strings.ToLower(p.Hospital), q)
	}
}

func matchState(state string) Predicate {
	return func(p *models.Program) bool {
		return p.State == state
	}
}

// "Step 1, Step 2 CK" matches a request for "Step 1", "Step 2 CK" and the
// combined option alike.
func matchUSMLEStep(step string) Predicate {
	return func(p *models.Program) bool {
		return strings.Contains(strings.Join(p.Eligibility.USMLESteps, ", "), step)
	}
}

func matchVisa(code string) Predicate {
	return func(p *models.Program) bool {
		visas := p.Eligibility.VisaTypes
		if slices.Contains(visas, models.AnyVisa) {
			return true
		}
		return slices.ContainsFunc(visas, func(v string) bool {
			return strings.Contains(v, code)
		})
	}
}
