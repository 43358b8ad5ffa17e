package validator_test

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel/config"
	"hotel/shared/failure"
	"hotel/shared/validator"
)

type stayStatus string

func (s stayStatus) Validate(*config.Config) error {
	switch s {
	case "pending", "checked-in":
		return nil
	default:
		return assert.AnError
	}
}

type stayRequest struct {
	RoomID string     `json:"room_id" validate:"required,uuid"`
	Email  string     `json:"email"   validate:"required,email"`
	Guests int        `json:"guests"  validate:"gte=1,lte=8"`
	Status stayStatus `json:"status"  validate:"omitempty,hotel"`
}

const roomID = "0b6f7f9e-3c1a-4d59-9a43-1f1f5c1b2a11"

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     stayRequest
		message string
	}{
		{
			name: "valid",
			req:  stayRequest{RoomID: roomID, Email: "guest@hotel.test", Guests: 2, Status: "checked-in"},
		},
		{
			name:    "missing room",
			req:     stayRequest{Email: "guest@hotel.test", Guests: 2},
			message: "RoomID is required",
		},
		{
			name:    "bad email",
			req:     stayRequest{RoomID: roomID, Email: "guest", Guests: 2},
			message: "Email must be a valid email address",
		},
		{
			name:    "too many guests",
			req:     stayRequest{RoomID: roomID, Email: "guest@hotel.test", Guests: 9},
			message: "Guests must be less than or equal to 8",
		},
		{
			name:    "enum rejects unknown value",
			req:     stayRequest{RoomID: roomID, Email: "guest@hotel.test", Guests: 1, Status: "teleported"},
			message: "Status has an unsupported value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)
			if tt.message == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.message)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidate(t *testing.T) {
	var req stayRequest

	err := validator.Validate(strings.NewReader(`{"room_id":"`+roomID+`","email":"guest@hotel.test","guests":2}`), &req)
	assert.NoError(t, err)
	assert.Equal(t, 2, req.Guests)

	err = validator.Validate(strings.NewReader(`{"room_id":`), &req)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Contains(t, err.Error(), "failed to decode request body")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("pending", "oneof=pending paid"))
	assert.EqualError(t, validator.ValidateVar("lost", "oneof=pending paid"), " must be one of pending paid")
	assert.NoError(t, validator.ValidateVar("Asia/Jakarta", "timezone"))
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)

	return &multipart.FileHeader{Filename: name, Header: header, Size: size}
}

func TestValidateFiles(t *testing.T) {
	const mb = 1024 * 1024

	tests := []struct {
		name    string
		files   []*multipart.FileHeader
		message string
	}{
		{
			name:  "accepted batch",
			files: []*multipart.FileHeader{fileHeader("suite.jpg", "image/jpeg", mb), fileHeader("bath.webp", "image/webp", 2*mb)},
		},
		{
			name:    "too many files",
			files:   []*multipart.FileHeader{fileHeader("a.png", "image/png", 1), fileHeader("b.png", "image/png", 1), fileHeader("c.png", "image/png", 1)},
			message: "at most 2 files can be uploaded at once",
		},
		{
			name:    "wrong type",
			files:   []*multipart.FileHeader{fileHeader("menu.pdf", "application/pdf", 1)},
			message: "menu.pdf must be one of " + validator.ImageTypes,
		},
		{
			name:    "too large",
			files:   []*multipart.FileHeader{fileHeader("lobby.png", "image/png", 3*mb)},
			message: "lobby.png must not exceed 2MB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateFiles(tt.files, 2, 2, validator.ImageTypes)
			if tt.message == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.message)
		})
	}
}
