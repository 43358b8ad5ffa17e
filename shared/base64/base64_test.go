package base64_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/shared/base64"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "png logo", input: "data:image/png;base64,iVBORw0KGgo=", want: "image/png"},
		{name: "jpeg logo", input: "data:image/jpeg;base64,/9j/4AAQ", want: "image/jpeg"},
		{name: "plain url", input: "https://cdn.hotel.test/logo.png", want: ""},
		{name: "missing marker", input: "data:image/png,abc", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base64.GetContentType(tt.input))
		})
	}
}

func TestDecode(t *testing.T) {
	contentType, data, err := base64.Decode("data:image/png;base64,aGVsbG8=")

	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte("hello"), data)

	_, _, err = base64.Decode("https://cdn.hotel.test/logo.png")
	assert.ErrorIs(t, err, base64.ErrNotDataURI)

	_, _, err = base64.Decode("data:image/png;base64,***")
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".png", base64.Extension("image/png"))
	assert.Equal(t, ".jpg", base64.Extension("image/jpeg"))
	assert.Equal(t, "", base64.Extension("garbage"))
}
