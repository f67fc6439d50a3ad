package jwt_test

import (
	"estatehub/config"
	"estatehub/infras/jwt"
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig(secret string, expire int) *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "estatehub"
	cfg.JWT.AccessSecret = secret
	cfg.JWT.AccessExpireMin = expire

	return cfg
}

func TestValidateToken(t *testing.T) {
	service := jwt.New(newConfig("s3cret", 15))

	token, err := service.GenerateAccessToken("resident-1", "resident@estate.test", "resident")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "resident-1", claims.UserID)
	assert.Equal(t, "resident@estate.test", claims.Email)
	assert.Equal(t, "resident", claims.Role)
	assert.Equal(t, jwt.AccessToken, claims.Type)
	assert.NotEmpty(t, claims.TokenID)
}

func TestValidateToken_Failures(t *testing.T) {
	service := jwt.New(newConfig("s3cret", 15))

	foreign, err := jwt.New(newConfig("other", 15)).GenerateAccessToken("u", "e", "admin")
	require.NoError(t, err)

	expired, err := jwt.New(newConfig("s3cret", -5)).GenerateAccessToken("u", "e", "admin")
	require.NoError(t, err)

	wrongType, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, jwt.Claims{UserID: "u", Type: "refresh"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "not-a-token", wantErr: jwt.ErrInvalidToken},
		{name: "wrong secret", token: foreign, wantErr: jwt.ErrInvalidToken},
		{name: "expired", token: expired, wantErr: jwt.ErrExpiredToken},
		{name: "wrong token type", token: wrongType, wantErr: jwt.ErrInvalidClaim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateToken(tt.token, jwt.AccessToken)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty header", header: "", wantErr: true},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "bearer without token", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jwt.ExtractTokenFromHeader(tt.header)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
