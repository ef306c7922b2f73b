package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

type staffRepository struct{ *Store }

func (s *Store) Staff() staff.StaffRepository { return staffRepository{s} }

func (r staffRepository) Create(ctx context.Context, m staff.Staff) (staff.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.state.staff {
		if existing.EmployeeCode == m.EmployeeCode {
			return staff.Staff{}, staff.ErrEmployeeCodeExists
		}
		if strings.EqualFold(existing.Email, m.Email) {
			return staff.Staff{}, staff.ErrEmailExists
		}
	}
	m.ID, m.CreatedAt = r.nextID("staff")
	m.UpdatedAt = m.CreatedAt
	r.state.staff[m.ID] = m
	return m, nil
}

func (r staffRepository) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.state.staff[id]
	if !ok {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	return m, nil
}

func (r staffRepository) find(match func(staff.Staff) bool) (staff.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.state.staff {
		if match(m) {
			return m, nil
		}
	}
	return staff.Staff{}, staff.ErrStaffNotFound
}

func (r staffRepository) GetByEmployeeCode(ctx context.Context, code string) (staff.Staff, error) {
	return r.find(func(m staff.Staff) bool { return m.EmployeeCode == code })
}

func (r staffRepository) GetByEmail(ctx context.Context, email string) (staff.Staff, error) {
	return r.find(func(m staff.Staff) bool { return strings.EqualFold(m.Email, email) })
}

func (r staffRepository) List(ctx context.Context, role *identity.Role) ([]staff.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]staff.Staff, 0, len(r.state.staff))
	for _, m := range r.state.staff {
		if role == nil || m.Role == *role {
			list = append(list, m)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r staffRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.state.staff[id]; !ok {
		return staff.ErrStaffNotFound
	}
	delete(r.state.staff, id)
	return nil
}

func (r staffRepository) update(id string, fn func(*staff.Staff)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.state.staff[id]
	if !ok {
		return staff.ErrStaffNotFound
	}
	fn(&m)
	r.state.staff[id] = m
	return nil
}

func (r staffRepository) UpdateLeaveQuota(ctx context.Context, id string, quota int) error {
	return r.update(id, func(m *staff.Staff) { m.LeaveQuota = quota })
}

func (r staffRepository) UpdateProfile(ctx context.Context, id string, name string, phone *string) error {
	return r.update(id, func(m *staff.Staff) {
		m.Name = name
		m.Phone = phone
	})
}

func (r staffRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return r.update(id, func(m *staff.Staff) { m.PasswordHash = passwordHash })
}
