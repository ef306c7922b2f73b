package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/correction"
)

type correctionRepository struct{ *Store }

func (s *Store) Corrections() correction.CorrectionRepository { return correctionRepository{s} }

func (r correctionRepository) Create(ctx context.Context, c correction.Correction) (correction.Correction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID, c.CreatedAt = r.nextID("corr")
	c.EmployeeName, c.EmployeeCode = nil, nil
	r.state.corrections[c.ID] = c
	return c, nil
}

func (r correctionRepository) GetByID(ctx context.Context, id string) (correction.Correction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.state.corrections[id]
	if !ok {
		return correction.Correction{}, correction.ErrCorrectionNotFound
	}
	c.EmployeeName, c.EmployeeCode = r.staffName(c.StaffID)
	return c, nil
}

func (r correctionRepository) list(match func(correction.Correction) bool) []correction.Correction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []correction.Correction
	for _, c := range r.state.corrections {
		if match(c) {
			c.EmployeeName, c.EmployeeCode = r.staffName(c.StaffID)
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (r correctionRepository) ListAll(ctx context.Context) ([]correction.Correction, error) {
	return r.list(func(correction.Correction) bool { return true }), nil
}

func (r correctionRepository) ListByStaff(ctx context.Context, staffID string) ([]correction.Correction, error) {
	return r.list(func(c correction.Correction) bool { return c.StaffID == staffID }), nil
}

func (r correctionRepository) UpdateDecision(ctx context.Context, id string, status correction.Status, comment *string, decidedBy string, decidedAt time.Time) (correction.Correction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.state.corrections[id]
	if !ok {
		return correction.Correction{}, correction.ErrCorrectionNotFound
	}
	if c.Status != correction.StatusPending {
		return correction.Correction{}, correction.ErrAlreadyDecided
	}
	c.Status = status
	c.AdminComment = comment
	c.DecidedBy = &decidedBy
	c.DecidedAt = &decidedAt
	r.state.corrections[id] = c
	c.EmployeeName, c.EmployeeCode = r.staffName(c.StaffID)
	return c, nil
}
