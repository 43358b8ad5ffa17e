package dto

import (
	"time"

	"github.com/google/uuid"

	"hotel/internal/domains/inventory/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
)

type CreateMaintenanceRequest struct {
	RoomID            string                `json:"room_id"            validate:"required,uuid"`
	Type              model.MaintenanceType `json:"type"               validate:"required,hotel"`
	Priority          model.Priority        `json:"priority"           validate:"omitempty,hotel"`
	Title             string                `json:"title"              validate:"required,max=200"`
	Description       string                `json:"description"        validate:"omitempty,max=2000"`
	ScheduledDate     string                `json:"scheduled_date"     validate:"required"`
	EstimatedDuration float64               `json:"estimated_duration" validate:"gte=0"`
	Cost              float64               `json:"cost"               validate:"gte=0"`
	AssignedTo        string                `json:"assigned_to"        validate:"omitempty,max=100"`
}

// ToModel schedules the work. Records always start scheduled and default to
// medium priority.
func (c *CreateMaintenanceRequest) ToModel(user string) (model.Maintenance, error) {
	scheduled, err := ParseTime(model.FieldScheduledDate, c.ScheduledDate)
	if err != nil {
		return model.Maintenance{}, err
	}

	priority := c.Priority
	if priority == constant.Empty {
		priority = model.PriorityMedium
	}

	now := timezone.Now()

	return model.Maintenance{
		ID:                uuid.NewString(),
		RoomID:            c.RoomID,
		Type:              c.Type,
		Priority:          priority,
		Status:            model.MaintenanceScheduled,
		Title:             c.Title,
		Description:       c.Description,
		ScheduledDate:     scheduled,
		EstimatedDuration: c.EstimatedDuration,
		Cost:              c.Cost,
		AssignedTo:        c.AssignedTo,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateMaintenanceRequest struct {
	Type              model.MaintenanceType   `db:"type"               json:"type"               validate:"omitempty,hotel"`
	Priority          model.Priority          `db:"priority"           json:"priority"           validate:"omitempty,hotel"`
	Status            model.MaintenanceStatus `db:"status"             json:"status"             validate:"omitempty,hotel"`
	Title             string                  `db:"title"              json:"title"              validate:"omitempty,max=200"`
	Description       string                  `db:"description"        json:"description"        validate:"omitempty,max=2000"`
	ScheduledDate     string                  `json:"scheduled_date"`
	CompletedDate     string                  `json:"completed_date"`
	EstimatedDuration *float64                `db:"estimated_duration" json:"estimated_duration" validate:"omitempty,gte=0"`
	Cost              *float64                `db:"cost"               json:"cost"               validate:"omitempty,gte=0"`
	AssignedTo        string                  `db:"assigned_to"        json:"assigned_to"        validate:"omitempty,max=100"`

	ScheduledAt *time.Time `db:"scheduled_date" json:"-"`
	CompletedAt *time.Time `db:"completed_date" json:"-"`
}

// Normalize parses the date fields. Moving a record to completed without a
// completion date stamps now.
func (u *UpdateMaintenanceRequest) Normalize(now time.Time) error {
	if u.ScheduledDate != constant.Empty {
		scheduled, err := ParseTime(model.FieldScheduledDate, u.ScheduledDate)
		if err != nil {
			return err
		}

		u.ScheduledAt = &scheduled
	}

	if u.CompletedDate != constant.Empty {
		completed, err := ParseTime(model.FieldCompletedDate, u.CompletedDate)
		if err != nil {
			return err
		}

		u.CompletedAt = &completed
	}

	if u.Status == model.MaintenanceCompleted && u.CompletedAt == nil {
		u.CompletedAt = &now
	}

	return nil
}

func (u *UpdateMaintenanceRequest) IsEmpty() bool {
	return *u == UpdateMaintenanceRequest{}
}

type MaintenanceResponse struct {
	ID                string                  `json:"id"`
	RoomID            string                  `json:"room_id"`
	Type              model.MaintenanceType   `json:"type"`
	Priority          model.Priority          `json:"priority"`
	Status            model.MaintenanceStatus `json:"status"`
	Title             string                  `json:"title"`
	Description       string                  `json:"description"`
	ScheduledDate     time.Time               `json:"scheduled_date"`
	CompletedDate     *time.Time              `json:"completed_date,omitempty"`
	EstimatedDuration float64                 `json:"estimated_duration"`
	Cost              float64                 `json:"cost"`
	AssignedTo        string                  `json:"assigned_to"`
	gDto.Metadata
}

func (r *MaintenanceResponse) FromModel(record model.Maintenance) {
	r.ID = record.ID
	r.RoomID = record.RoomID
	r.Type = record.Type
	r.Priority = record.Priority
	r.Status = record.Status
	r.Title = record.Title
	r.Description = record.Description
	r.ScheduledDate = record.ScheduledDate
	r.CompletedDate = record.CompletedDate
	r.EstimatedDuration = record.EstimatedDuration
	r.Cost = record.Cost
	r.AssignedTo = record.AssignedTo
	r.Metadata.FromModel(record.Metadata)
}

type GetMaintenanceResponse struct {
	Records   []MaintenanceResponse `json:"records"`
	TotalPage int                   `json:"total_page"`
	TotalData int                   `json:"total_data"`
}

func (r *GetMaintenanceResponse) FromModels(models []model.Maintenance, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Records = make([]MaintenanceResponse, len(models))
	for i, mod := range models {
		r.Records[i].FromModel(mod)
	}
}

type CreateBlockRequest struct {
	RoomID    string          `json:"room_id"    validate:"required,uuid"`
	StartDate string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string          `json:"end_date"   validate:"required,datetime=2006-01-02"`
	Reason    string          `json:"reason"     validate:"omitempty,max=500"`
	Type      model.BlockType `json:"type"       validate:"required,hotel"`
}

func (c *CreateBlockRequest) ToModel(user string) (model.Block, error) {
	start, end, err := ParseRange(c.StartDate, c.EndDate)
	if err != nil {
		return model.Block{}, err
	}

	now := timezone.Now()

	return model.Block{
		ID:        uuid.NewString(),
		RoomID:    c.RoomID,
		StartDate: start,
		EndDate:   end,
		Reason:    c.Reason,
		Type:      c.Type,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateBlockRequest struct {
	StartDate string          `db:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string          `db:"end_date"   json:"end_date"   validate:"omitempty,datetime=2006-01-02"`
	Reason    string          `db:"reason"     json:"reason"     validate:"omitempty,max=500"`
	Type      model.BlockType `db:"type"       json:"type"       validate:"omitempty,hotel"`
}

// Merge checks that the range stays ordered once applied to the stored block.
func (u *UpdateBlockRequest) Merge(current model.Block) error {
	start := current.StartDate.Format(constant.DateOnlyFormat)
	if u.StartDate != constant.Empty {
		start = u.StartDate
	}

	end := current.EndDate.Format(constant.DateOnlyFormat)
	if u.EndDate != constant.Empty {
		end = u.EndDate
	}

	_, _, err := ParseRange(start, end)

	return err
}

type BlockResponse struct {
	ID        string          `json:"id"`
	RoomID    string          `json:"room_id"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Reason    string          `json:"reason"`
	Type      model.BlockType `json:"type"`
	gDto.Metadata
}

func (r *BlockResponse) FromModel(block model.Block) {
	r.ID = block.ID
	r.RoomID = block.RoomID
	r.StartDate = block.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = block.EndDate.Format(constant.DateOnlyFormat)
	r.Reason = block.Reason
	r.Type = block.Type
	r.Metadata.FromModel(block.Metadata)
}

type GetBlocksResponse struct {
	Blocks    []BlockResponse `json:"blocks"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetBlocksResponse) FromModels(models []model.Block, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Blocks = make([]BlockResponse, len(models))
	for i, mod := range models {
		r.Blocks[i].FromModel(mod)
	}
}

// ParseTime accepts an RFC 3339 time or a calendar date in the application
// time zone.
func ParseTime(field, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := timezone.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		return t, failure.BadRequestFromString(field + " must be an RFC 3339 time or a YYYY-MM-DD date")
	}

	return t, nil
}

// ParseRange parses two calendar dates and requires end >= start.
func ParseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(constant.DateOnlyFormat, startDate)
	if err != nil {
		return start, start, failure.BadRequestFromString("start_date must be formatted as YYYY-MM-DD")
	}

	end, err := time.Parse(constant.DateOnlyFormat, endDate)
	if err != nil {
		return start, end, failure.BadRequestFromString("end_date must be formatted as YYYY-MM-DD")
	}

	if end.Before(start) {
		return start, end, failure.BadRequestFromString("end_date must not be before start_date")
	}

	return start, end, nil
}
