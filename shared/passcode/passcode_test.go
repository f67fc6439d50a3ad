package passcode_test

import (
	"estatehub/shared/passcode"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)

	for range 20 {
		code, err := passcode.Generate()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestHash(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{name: "valid code", code: "042917"},
		{name: "empty code", code: "", wantErr: passcode.ErrEmptyCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := passcode.Hash(tt.code)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)

				return
			}

			assert.NoError(t, err)
			assert.NotEqual(t, tt.code, hash)
		})
	}
}

func TestVerify(t *testing.T) {
	hash, err := passcode.Hash("042917")
	require.NoError(t, err)

	tests := []struct {
		name    string
		code    string
		hash    string
		wantErr error
	}{
		{name: "matching code", code: "042917", hash: hash},
		{name: "wrong code", code: "111111", hash: hash, wantErr: passcode.ErrInvalidCode},
		{name: "empty code", code: "", hash: hash, wantErr: passcode.ErrInvalidCode},
		{name: "empty hash", code: "042917", hash: "", wantErr: passcode.ErrInvalidCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := passcode.Verify(tt.code, tt.hash)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}
