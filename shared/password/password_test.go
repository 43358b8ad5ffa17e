package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hotel/shared/password"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost

	m.Run()
}

func TestHash(t *testing.T) {
	tests := []struct {
		name    string
		plain   string
		wantErr error
	}{
		{name: "regular", plain: "s3cretpass"},
		{name: "unicode", plain: "pässwörd-客房"},
		{name: "exactly the bcrypt limit", plain: strings.Repeat("a", 72)},
		{name: "empty", plain: "", wantErr: password.ErrEmptyPassword},
		{name: "too long", plain: strings.Repeat("a", 73), wantErr: password.ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.plain)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.plain, hash)
			assert.NoError(t, password.Verify(tt.plain, hash))
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := password.Hash("s3cretpass")
	require.NoError(t, err)

	second, err := password.Hash("s3cretpass")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("s3cretpass")
	require.NoError(t, err)

	tests := []struct {
		name  string
		plain string
		hash  string
	}{
		{name: "wrong password", plain: "wrongpass", hash: hash},
		{name: "empty password", plain: "", hash: hash},
		{name: "empty hash", plain: "s3cretpass", hash: ""},
		{name: "malformed hash", plain: "s3cretpass", hash: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, password.Verify(tt.plain, tt.hash), password.ErrInvalidPassword)
		})
	}
}
