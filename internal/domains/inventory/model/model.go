package model

import (
	"time"

	"hotel/config"
	"hotel/shared/model"
)

const (
	MaintenanceTable  = "maintenance_records"
	MaintenanceEntity = "maintenance"
	BlockTable        = "availability_blocks"
	BlockEntity       = "availability_block"

	FieldID            = "id"
	FieldRoomID        = "room_id"
	FieldType          = "type"
	FieldPriority      = "priority"
	FieldStatus        = "status"
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldScheduledDate = "scheduled_date"
	FieldCompletedDate = "completed_date"
	FieldAssignedTo    = "assigned_to"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldReason        = "reason"
)

type MaintenanceType string

const (
	TypeMaintenance MaintenanceType = "maintenance"
	TypeCleaning    MaintenanceType = "cleaning"
	TypeRepair      MaintenanceType = "repair"
	TypeInspection  MaintenanceType = "inspection"
)

var MaintenanceTypes = []MaintenanceType{TypeMaintenance, TypeCleaning, TypeRepair, TypeInspection}

func (t MaintenanceType) Validate(*config.Config) error {
	return model.OneOf(t, MaintenanceTypes...)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p Priority) Validate(*config.Config) error {
	return model.OneOf(p, Priorities...)
}

// TakesRoomOffline reports whether scheduling work at this priority puts
// the room into maintenance straight away.
func (p Priority) TakesRoomOffline() bool {
	return p == PriorityHigh || p == PriorityUrgent
}

type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in-progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

var MaintenanceStatuses = []MaintenanceStatus{MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled}

func (s MaintenanceStatus) Validate(*config.Config) error {
	return model.OneOf(s, MaintenanceStatuses...)
}

type Maintenance struct {
	ID                string            `db:"id"`
	RoomID            string            `db:"room_id"`
	Type              MaintenanceType   `db:"type"`
	Priority          Priority          `db:"priority"`
	Status            MaintenanceStatus `db:"status"`
	Title             string            `db:"title"`
	Description       string            `db:"description"`
	ScheduledDate     time.Time         `db:"scheduled_date"`
	CompletedDate     *time.Time        `db:"completed_date"`
	EstimatedDuration float64           `db:"estimated_duration"`
	Cost              float64           `db:"cost"`
	AssignedTo        string            `db:"assigned_to"`
	model.Metadata
}

type BlockType string

const (
	BlockMaintenance BlockType = "maintenance"
	BlockReserved    BlockType = "reserved"
	BlockBlocked     BlockType = "blocked"
)

var BlockTypes = []BlockType{BlockMaintenance, BlockReserved, BlockBlocked}

func (b BlockType) Validate(*config.Config) error {
	return model.OneOf(b, BlockTypes...)
}

// Block is an administrative hold on a room. Bookings are not checked
// against it.
type Block struct {
	ID        string    `db:"id"`
	RoomID    string    `db:"room_id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Reason    string    `db:"reason"`
	Type      BlockType `db:"type"`
	model.Metadata
}
