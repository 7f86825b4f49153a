package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/project"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/aggregates/timeentry"
	"github.com/iota-uz/timesheet/modules/timesheet/domain/entities/approval"
	"github.com/iota-uz/timesheet/modules/timesheet/infrastructure/persistence/models"
)

func toDBProject(p project.Project) *models.Project {
	row := &models.Project{
		ID:          p.ID().String(),
		Name:        p.Name(),
		Description: p.Description(),
		Client:      p.Client(),
		Status:      string(p.Status()),
		CreatedBy:   p.CreatedBy().String(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
	if rate := p.HourlyRate(); rate != nil {
		s := rate.String()
		row.HourlyRate = &s
	}
	return row
}

func toDomainProject(row *models.Project) (project.Project, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "invalid project id")
	}
	createdBy, err := uuid.Parse(row.CreatedBy)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "invalid project created_by")
	}
	var rate *decimal.Decimal
	if row.HourlyRate != nil {
		parsed, err := decimal.NewFromString(*row.HourlyRate)
		if err != nil {
			return project.Project{}, errors.Wrap(err, "invalid project hourly_rate")
		}
		rate = &parsed
	}
	return project.Hydrate(
		id,
		row.Name,
		row.Description,
		row.Client,
		project.Status(row.Status),
		rate,
		createdBy,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func toDBAssignment(a project.Assignment) *models.ProjectAssignment {
	row := &models.ProjectAssignment{
		ID:         a.ID().String(),
		UserID:     a.UserID().String(),
		ProjectID:  a.ProjectID().String(),
		AssignedAt: a.AssignedAt(),
		RemovedAt:  a.RemovedAt(),
		Active:     a.Active(),
	}
	if by := a.AssignedBy(); by != nil {
		s := by.String()
		row.AssignedBy = &s
	}
	if by := a.RemovedBy(); by != nil {
		s := by.String()
		row.RemovedBy = &s
	}
	return row
}

func toDomainAssignment(row *models.ProjectAssignment) (project.Assignment, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return project.Assignment{}, errors.Wrap(err, "invalid assignment id")
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return project.Assignment{}, errors.Wrap(err, "invalid assignment user_id")
	}
	projectID, err := uuid.Parse(row.ProjectID)
	if err != nil {
		return project.Assignment{}, errors.Wrap(err, "invalid assignment project_id")
	}
	assignedBy, err := parseOptionalUUID(row.AssignedBy)
	if err != nil {
		return project.Assignment{}, errors.Wrap(err, "invalid assignment assigned_by")
	}
	removedBy, err := parseOptionalUUID(row.RemovedBy)
	if err != nil {
		return project.Assignment{}, errors.Wrap(err, "invalid assignment removed_by")
	}
	return project.HydrateAssignment(
		id,
		userID,
		projectID,
		assignedBy,
		row.AssignedAt,
		removedBy,
		row.RemovedAt,
		row.Active,
	), nil
}

func toDBManagerAssignment(m project.ManagerAssignment) *models.ManagerAssignment {
	return &models.ManagerAssignment{
		ID:         m.ID().String(),
		ProjectID:  m.ProjectID().String(),
		ManagerID:  m.ManagerID().String(),
		AssignedBy: m.AssignedBy().String(),
		AssignedAt: m.AssignedAt(),
	}
}

func toDomainManagerAssignment(row *models.ManagerAssignment) (project.ManagerAssignment, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return project.ManagerAssignment{}, errors.Wrap(err, "invalid manager assignment id")
	}
	projectID, err := uuid.Parse(row.ProjectID)
	if err != nil {
		return project.ManagerAssignment{}, errors.Wrap(err, "invalid manager assignment project_id")
	}
	managerID, err := uuid.Parse(row.ManagerID)
	if err != nil {
		return project.ManagerAssignment{}, errors.Wrap(err, "invalid manager assignment manager_id")
	}
	assignedBy, err := uuid.Parse(row.AssignedBy)
	if err != nil {
		return project.ManagerAssignment{}, errors.Wrap(err, "invalid manager assignment assigned_by")
	}
	return project.HydrateManagerAssignment(id, projectID, managerID, assignedBy, row.AssignedAt), nil
}

func toDBTimeEntry(t timeentry.TimeEntry) *models.TimeEntry {
	return &models.TimeEntry{
		ID:          t.ID().String(),
		OwnerID:     t.OwnerID().String(),
		ProjectID:   t.ProjectID().String(),
		Description: t.Description(),
		Category:    t.Category(),
		Hours:       t.Hours().String(),
		Date:        t.Date(),
		Status:      string(t.Status()),
		Version:     t.Version(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

func toDomainTimeEntry(row *models.TimeEntry) (timeentry.TimeEntry, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return timeentry.TimeEntry{}, errors.Wrap(err, "invalid time entry id")
	}
	ownerID, err := uuid.Parse(row.OwnerID)
	if err != nil {
		return timeentry.TimeEntry{}, errors.Wrap(err, "invalid time entry owner_id")
	}
	projectID, err := uuid.Parse(row.ProjectID)
	if err != nil {
		return timeentry.TimeEntry{}, errors.Wrap(err, "invalid time entry project_id")
	}
	hours, err := decimal.NewFromString(row.Hours)
	if err != nil {
		return timeentry.TimeEntry{}, errors.Wrap(err, "invalid time entry hours")
	}
	return timeentry.Hydrate(
		id,
		ownerID,
		projectID,
		row.Description,
		row.Category,
		hours,
		row.Date,
		timeentry.Status(row.Status),
		row.Version,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func toDBApproval(a approval.Approval) *models.Approval {
	row := &models.Approval{
		ID:          a.ID().String(),
		TimeEntryID: a.TimeEntryID().String(),
		Level:       int(a.Level()),
		Status:      string(a.Status()),
		Comments:    a.Comments(),
		IsFinal:     a.IsFinal(),
		ApprovedAt:  a.ApprovedAt(),
		CreatedAt:   a.CreatedAt(),
	}
	if by := a.ApproverID(); by != nil {
		s := by.String()
		row.ApproverID = &s
	}
	return row
}

func toDomainApproval(row *models.Approval) (approval.Approval, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return approval.Approval{}, errors.Wrap(err, "invalid approval id")
	}
	entryID, err := uuid.Parse(row.TimeEntryID)
	if err != nil {
		return approval.Approval{}, errors.Wrap(err, "invalid approval time_entry_id")
	}
	approverID, err := parseOptionalUUID(row.ApproverID)
	if err != nil {
		return approval.Approval{}, errors.Wrap(err, "invalid approval approver_id")
	}
	return approval.Hydrate(
		id,
		entryID,
		approverID,
		approval.Level(row.Level),
		approval.Status(row.Status),
		row.Comments,
		row.IsFinal,
		row.ApprovedAt,
		row.CreatedAt,
	), nil
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	parsed, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
