package repo

import (
	"errors"
	"slices"

	"find-usce-backend/internal/models"
)

var (
	ErrProgramNotFound = errors.New("program not found")
	ErrDuplicateID     = errors.New("duplicate program id")
)

// ProgramRepo serves the snapshot loaded at process start. It is read-only,
// so it is safe for concurrent use without locking.
type ProgramRepo struct {
	programs []models.Program
	byID     map[string]int
}

type ProgramRepoInterface interface {
	GetAll() []models.Program
	GetByID(id string) (models.Program, error)
	States() []string
	Specialties() []string
	Stats() models.Stats
}

func NewProgramRepository(programs []models.Program) (ProgramRepoInterface, error) {
	if err := checkUniqueIDs(programs); err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(programs))
	for i, p := range programs {
		byID[p.ID] = i
	}
	return &ProgramRepo{programs: programs, byID: byID}, nil
}

// GetAll returns the snapshot itself; callers must not modify it
func (r *ProgramRepo) GetAll() []models.Program {
	return r.programs
}

func (r *ProgramRepo) GetByID(id string) (models.Program, error) {
	i, ok := r.byID[id]
	if !ok {
		return models.Program{}, ErrProgramNotFound
	}
	return r.programs[i], nil
}

// States returns the distinct state names, sorted, without the nationwide
// placeholder
func (r *ProgramRepo) States() []string {
	return distinct(r.programs, func(p models.Program) string {
		if p.State == models.NationwideState {
			return ""
		}
		return p.State
	})
}

func (r *ProgramRepo) Specialties() []string {
	return distinct(r.programs, func(p models.Program) string { return p.Specialty })
}

func (r *ProgramRepo) Stats() models.Stats {
	codes := make(map[string]struct{})
	stats := models.Stats{Total: len(r.programs)}
	for _, p := range r.programs {
		codes[p.StateCode] = struct{}{}
		if p.AcceptingApplications {
			stats.Accepting++
		}
		if p.LOR {
			stats.WithLOR++
		}
	}
	stats.States = len(codes)
	return stats
}

func distinct(programs []models.Program, key func(models.Program) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range programs {
		k := key(p)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
