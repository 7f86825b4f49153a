package services_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/modules/core/domain/aggregates/user"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/project"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/timeentry"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/approval"
)

// memEntries is a map-backed timeentry.Repository with the same version
// check-and-increment contract as the real store.
type memEntries struct {
	items map[uuid.UUID]timeentry.TimeEntry
}

func newMemEntries() *memEntries {
	return &memEntries{items: map[uuid.UUID]timeentry.TimeEntry{}}
}

func (m *memEntries) add(t timeentry.TimeEntry) {
	m.items[t.ID()] = t
}

func (m *memEntries) matches(t timeentry.TimeEntry, params *timeentry.FindParams) bool {
	if params == nil {
		return true
	}
	if params.OwnerID != nil && t.OwnerID() != *params.OwnerID {
		return false
	}
	if params.ProjectID != nil && t.ProjectID() != *params.ProjectID {
		return false
	}
	if len(params.ProjectIDs) > 0 {
		found := false
		for _, id := range params.ProjectIDs {
			if t.ProjectID() == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if params.Status != nil && t.Status() != *params.Status {
		return false
	}
	if params.Range != nil {
		if t.Date().Before(params.Range.From) || t.Date().After(params.Range.To) {
			return false
		}
	}
	return true
}

func (m *memEntries) Count(_ context.Context, params *timeentry.FindParams) (int64, error) {
	var n int64
	for _, t := range m.items {
		if m.matches(t, params) {
			n++
		}
	}
	return n, nil
}

func (m *memEntries) List(_ context.Context, params *timeentry.FindParams) ([]timeentry.TimeEntry, error) {
	var out []timeentry.TimeEntry
	for _, t := range m.items {
		if m.matches(t, params) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out, nil
}

func (m *memEntries) GetByID(_ context.Context, id uuid.UUID) (timeentry.TimeEntry, error) {
	t, ok := m.items[id]
	if !ok {
		return timeentry.TimeEntry{}, timeentry.ErrNotFound
	}
	return t, nil
}

func (m *memEntries) Create(_ context.Context, data timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	m.items[data.ID()] = data
	return data, nil
}

func (m *memEntries) Update(_ context.Context, data timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	stored, ok := m.items[data.ID()]
	if !ok {
		return timeentry.TimeEntry{}, timeentry.ErrNotFound
	}
	if stored.Version() != data.Version() {
		return timeentry.TimeEntry{}, timeentry.ErrStaleVersion
	}
	bumped := timeentry.Hydrate(
		data.ID(),
		data.OwnerID(),
		data.ProjectID(),
		data.Description(),
		data.Category(),
		data.Hours(),
		data.Date(),
		data.Status(),
		data.Version()+1,
		data.CreatedAt(),
		time.Now().UTC(),
	)
	m.items[data.ID()] = bumped
	return bumped, nil
}

func (m *memEntries) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return timeentry.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memEntries) SumHours(_ context.Context, ownerID uuid.UUID, dateRange *timeentry.DateRange) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range m.items {
		if t.OwnerID() != ownerID {
			continue
		}
		if dateRange != nil && (t.Date().Before(dateRange.From) || t.Date().After(dateRange.To)) {
			continue
		}
		total = total.Add(t.Hours())
	}
	return total, nil
}

// memApprovals stores approvals append-only, keyed by id, ordered by
// insertion.
type memApprovals struct {
	order []uuid.UUID
	items map[uuid.UUID]approval.Approval
}

func newMemApprovals() *memApprovals {
	return &memApprovals{items: map[uuid.UUID]approval.Approval{}}
}

func (m *memApprovals) ListByEntry(_ context.Context, timeEntryID uuid.UUID) ([]approval.Approval, error) {
	var out []approval.Approval
	for _, id := range m.order {
		if a := m.items[id]; a.TimeEntryID() == timeEntryID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memApprovals) ActiveForLevel(_ context.Context, timeEntryID uuid.UUID, level approval.Level) (approval.Approval, error) {
	for i := len(m.order) - 1; i >= 0; i-- {
		a := m.items[m.order[i]]
		if a.TimeEntryID() == timeEntryID && a.Level() == level && a.Pending() {
			return a, nil
		}
	}
	return approval.Approval{}, approval.ErrNotFound
}

func (m *memApprovals) CountByEntry(_ context.Context, timeEntryID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range m.items {
		if a.TimeEntryID() == timeEntryID {
			n++
		}
	}
	return n, nil
}

func (m *memApprovals) Create(_ context.Context, data approval.Approval) (approval.Approval, error) {
	m.items[data.ID()] = data
	m.order = append(m.order, data.ID())
	return data, nil
}

func (m *memApprovals) Update(_ context.Context, data approval.Approval) error {
	if _, ok := m.items[data.ID()]; !ok {
		return approval.ErrNotFound
	}
	m.items[data.ID()] = data
	return nil
}

// memProjects covers the project repository surface the services touch.
type memProjects struct {
	projects    map[uuid.UUID]project.Project
	assignments map[uuid.UUID]project.Assignment
	managers    map[uuid.UUID]project.ManagerAssignment
}

func newMemProjects() *memProjects {
	return &memProjects{
		projects:    map[uuid.UUID]project.Project{},
		assignments: map[uuid.UUID]project.Assignment{},
		managers:    map[uuid.UUID]project.ManagerAssignment{},
	}
}

func (m *memProjects) add(p project.Project) {
	m.projects[p.ID()] = p
}

func (m *memProjects) matches(p project.Project, params *project.FindParams) bool {
	if params == nil {
		return true
	}
	if params.Status != nil && p.Status() != *params.Status {
		return false
	}
	return true
}

func (m *memProjects) Count(_ context.Context, params *project.FindParams) (int64, error) {
	var n int64
	for _, p := range m.projects {
		if m.matches(p, params) {
			n++
		}
	}
	return n, nil
}

func (m *memProjects) GetPaginated(_ context.Context, params *project.FindParams) ([]project.Project, error) {
	var out []project.Project
	for _, p := range m.projects {
		if m.matches(p, params) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProjects) GetByID(_ context.Context, id uuid.UUID) (project.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	return p, nil
}

func (m *memProjects) GetForUser(_ context.Context, userID uuid.UUID) ([]project.Project, error) {
	var out []project.Project
	for _, a := range m.assignments {
		if a.UserID() == userID && a.Active() {
			if p, ok := m.projects[a.ProjectID()]; ok {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (m *memProjects) GetForManager(_ context.Context, managerID uuid.UUID) ([]project.Project, error) {
	var out []project.Project
	for _, ma := range m.managers {
		if ma.ManagerID() == managerID {
			if p, ok := m.projects[ma.ProjectID()]; ok {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (m *memProjects) Create(_ context.Context, data project.Project) (project.Project, error) {
	m.projects[data.ID()] = data
	return data, nil
}

func (m *memProjects) Update(_ context.Context, data project.Project) error {
	if _, ok := m.projects[data.ID()]; !ok {
		return project.ErrNotFound
	}
	m.projects[data.ID()] = data
	return nil
}

func (m *memProjects) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.projects[id]; !ok {
		return project.ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

func (m *memProjects) GetAssignment(_ context.Context, projectID, userID uuid.UUID) (project.Assignment, error) {
	for _, a := range m.assignments {
		if a.ProjectID() == projectID && a.UserID() == userID {
			return a, nil
		}
	}
	return project.Assignment{}, project.ErrAssignmentNotFound
}

func (m *memProjects) CreateAssignment(_ context.Context, data project.Assignment) (project.Assignment, error) {
	m.assignments[data.ID()] = data
	return data, nil
}

func (m *memProjects) UpdateAssignment(_ context.Context, data project.Assignment) error {
	if _, ok := m.assignments[data.ID()]; !ok {
		return project.ErrAssignmentNotFound
	}
	m.assignments[data.ID()] = data
	return nil
}

func (m *memProjects) Members(_ context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, a := range m.assignments {
		if a.ProjectID() == projectID && a.Active() {
			out = append(out, a.UserID())
		}
	}
	return out, nil
}

func (m *memProjects) GetManagerAssignment(_ context.Context, projectID, managerID uuid.UUID) (project.ManagerAssignment, error) {
	for _, ma := range m.managers {
		if ma.ProjectID() == projectID && ma.ManagerID() == managerID {
			return ma, nil
		}
	}
	return project.ManagerAssignment{}, project.ErrManagerAssignmentNotFound
}

func (m *memProjects) CreateManagerAssignment(_ context.Context, data project.ManagerAssignment) (project.ManagerAssignment, error) {
	m.managers[data.ID()] = data
	return data, nil
}

func (m *memProjects) DeleteManagerAssignment(_ context.Context, projectID, managerID uuid.UUID) error {
	for id, ma := range m.managers {
		if ma.ProjectID() == projectID && ma.ManagerID() == managerID {
			delete(m.managers, id)
			return nil
		}
	}
	return project.ErrManagerAssignmentNotFound
}

func (m *memProjects) Managers(_ context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, ma := range m.managers {
		if ma.ProjectID() == projectID {
			out = append(out, ma.ManagerID())
		}
	}
	return out, nil
}

// fakeGate resolves capabilities from plain maps.
type fakeGate struct {
	admins     map[uuid.UUID]bool
	developers map[uuid.UUID][]uuid.UUID // projectID -> developer ids
	managers   map[uuid.UUID][]uuid.UUID // projectID -> manager ids
}

func newFakeGate() *fakeGate {
	return &fakeGate{
		admins:     map[uuid.UUID]bool{},
		developers: map[uuid.UUID][]uuid.UUID{},
		managers:   map[uuid.UUID][]uuid.UUID{},
	}
}

func (g *fakeGate) CanActOnProject(_ context.Context, userID, projectID uuid.UUID, role user.Role) (bool, error) {
	var pool []uuid.UUID
	switch role {
	case user.RoleDeveloper:
		pool = g.developers[projectID]
	case user.RoleManager:
		pool = g.managers[projectID]
	}
	for _, id := range pool {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (g *fakeGate) IsAdmin(_ context.Context, userID uuid.UUID) (bool, error) {
	return g.admins[userID], nil
}

func (g *fakeGate) AssignedManagers(_ context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	return g.managers[projectID], nil
}
