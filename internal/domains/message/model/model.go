package model

import (
	"time"

	"hotel/config"
	"hotel/shared/model"
)

const (
	TableName  = "messages"
	EntityName = "message"

	FieldID        = "id"
	FieldName      = "name"
	FieldEmail     = "email"
	FieldSubject   = "subject"
	FieldMessage   = "message"
	FieldStatus    = "status"
	FieldPriority  = "priority"
	FieldIsStarred = "is_starred"
	FieldReply     = "reply"
	FieldReadAt    = "read_at"
	FieldRepliedAt = "replied_at"
)

type Status string

const (
	StatusUnread   Status = "unread"
	StatusRead     Status = "read"
	StatusReplied  Status = "replied"
	StatusArchived Status = "archived"
)

var Statuses = []Status{StatusUnread, StatusRead, StatusReplied, StatusArchived}

func (s Status) Validate(*config.Config) error {
	return model.OneOf(s, Statuses...)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Validate(*config.Config) error {
	return model.OneOf(p, Priorities...)
}

type Message struct {
	ID        string     `db:"id"`
	Name      string     `db:"name"`
	Email     string     `db:"email"`
	Phone     string     `db:"phone"`
	Subject   string     `db:"subject"`
	Message   string     `db:"message"`
	Status    Status     `db:"status"`
	Priority  Priority   `db:"priority"`
	IsStarred bool       `db:"is_starred"`
	Reply     string     `db:"reply"`
	ReadAt    *time.Time `db:"read_at"`
	RepliedAt *time.Time `db:"replied_at"`
	model.Metadata
}
