package dto

import (
	"time"

	"github.com/google/uuid"

	"hotel/internal/domains/message/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
)

type CreateMessageRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"required,email"`
	Phone   string `json:"phone"   validate:"omitempty,max=30"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ToModel files a contact form submission. The sender is recorded as the
// author since the form needs no account.
func (c *CreateMessageRequest) ToModel() model.Message {
	now := timezone.Now()

	return model.Message{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Subject:  c.Subject,
		Message:  c.Message,
		Status:   model.StatusUnread,
		Priority: model.PriorityMedium,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  c.Email,
			ModifiedBy: c.Email,
		},
	}
}

type UpdateMessageRequest struct {
	Status    model.Status   `db:"status"     json:"status"     validate:"omitempty,hotel"`
	Priority  model.Priority `db:"priority"   json:"priority"   validate:"omitempty,hotel"`
	IsStarred *bool          `db:"is_starred" json:"is_starred"`

	ReadAt    *time.Time `db:"read_at"    json:"-"`
	RepliedAt *time.Time `db:"replied_at" json:"-"`
}

// Stamp fills the timestamps the new status implies. A message that was
// already read keeps its first read time.
func (u *UpdateMessageRequest) Stamp(current model.Message, now time.Time) {
	switch u.Status {
	case model.StatusRead:
		if current.ReadAt == nil {
			u.ReadAt = &now
		}
	case model.StatusReplied:
		u.RepliedAt = &now
	}
}

type ReplyRequest struct {
	Reply string `json:"reply" validate:"required,max=5000"`
}

type MessageResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Subject   string         `json:"subject"`
	Message   string         `json:"message"`
	Status    model.Status   `json:"status"`
	Priority  model.Priority `json:"priority"`
	IsStarred bool           `json:"is_starred"`
	Reply     string         `json:"reply,omitempty"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	RepliedAt *time.Time     `json:"replied_at,omitempty"`
	gDto.Metadata
}

func (r *MessageResponse) FromModel(msg model.Message) {
	r.ID = msg.ID
	r.Name = msg.Name
	r.Email = msg.Email
	r.Phone = msg.Phone
	r.Subject = msg.Subject
	r.Message = msg.Message
	r.Status = msg.Status
	r.Priority = msg.Priority
	r.IsStarred = msg.IsStarred
	r.Reply = msg.Reply
	r.ReadAt = msg.ReadAt
	r.RepliedAt = msg.RepliedAt
	r.Metadata.FromModel(msg.Metadata)
}

type GetMessagesResponse struct {
	Messages  []MessageResponse `json:"messages"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetMessagesResponse) FromModels(models []model.Message, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Messages = make([]MessageResponse, len(models))
	for i, mod := range models {
		r.Messages[i].FromModel(mod)
	}
}
