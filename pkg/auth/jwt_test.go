package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateJWT(t *testing.T) {
	jwtService := NewJWTService(testSecret)

	tests := []struct {
		name           string
		userID         int
		isAdmin        bool
		expirationTime time.Time
	}{
		{
			name:           "User token",
			userID:         123,
			expirationTime: time.Now().Add(time.Hour),
		},
		{
			name:           "Admin token",
			userID:         1,
			isAdmin:        true,
			expirationTime: time.Now().Add(time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwtService.GenerateJWT(tt.userID, "Wanjiru", tt.isAdmin, tt.expirationTime)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := jwtService.ValidateToken(token)
			require.NoError(t, err)
			id, err := claims.SubjectID()
			require.NoError(t, err)
			assert.Equal(t, tt.userID, id)
			assert.Equal(t, "Wanjiru", claims.Name)
			assert.Equal(t, tt.isAdmin, claims.IsAdmin)
			assert.NotEmpty(t, claims.Id)
			assert.Equal(t, tt.expirationTime.Unix(), claims.ExpiresAt)
		})
	}
}

func TestGenerateJWT_UniqueTokenID(t *testing.T) {
	jwtService := NewJWTService(testSecret)
	exp := time.Now().Add(time.Hour)

	first, err := jwtService.GenerateJWT(1, "a", false, exp)
	require.NoError(t, err)
	second, err := jwtService.GenerateJWT(1, "a", false, exp)
	require.NoError(t, err)

	c1, err := jwtService.ValidateToken(first)
	require.NoError(t, err)
	c2, err := jwtService.ValidateToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.Id, c2.Id)
}

func TestValidateToken(t *testing.T) {
	jwtService := NewJWTService(testSecret)

	tests := []struct {
		name          string
		tokenString   string
		setup         func() string
		expectedError error
	}{
		{
			name: "Valid Token",
			setup: func() string {
				token, _ := jwtService.GenerateJWT(123, "user", false, time.Now().Add(time.Hour))
				return token
			},
		},
		{
			name:          "Invalid Token",
			tokenString:   "invalid.token.string",
			expectedError: ErrInvalidToken,
		},
		{
			name: "Expired Token",
			setup: func() string {
				token, _ := jwtService.GenerateJWT(123, "user", false, time.Now().Add(-time.Hour))
				return token
			},
			expectedError: ErrTokenExpired,
		},
		{
			name: "Wrong Secret",
			setup: func() string {
				token, _ := NewJWTService("other-secret").GenerateJWT(123, "user", true, time.Now().Add(time.Hour))
				return token
			},
			expectedError: ErrInvalidToken,
		},
		{
			name: "Non-HMAC Algorithm",
			setup: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
					IsAdmin: true,
					StandardClaims: jwt.StandardClaims{
						Subject:   "1",
						ExpiresAt: time.Now().Add(time.Hour).Unix(),
						Issuer:    issuer,
					},
				})
				signedToken, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
				return signedToken
			},
			expectedError: ErrInvalidToken,
		},
		{
			name: "Missing Subject",
			setup: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
					ExpiresAt: time.Now().Add(time.Hour).Unix(),
					Issuer:    issuer,
				})
				signedToken, _ := token.SignedString([]byte(testSecret))
				return signedToken
			},
			expectedError: ErrInvalidToken,
		},
		{
			name: "Foreign Issuer",
			setup: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
					StandardClaims: jwt.StandardClaims{
						Subject:   "7",
						ExpiresAt: time.Now().Add(time.Hour).Unix(),
						Issuer:    "someone-else",
					},
				})
				signedToken, _ := token.SignedString([]byte(testSecret))
				return signedToken
			},
			expectedError: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString := tt.tokenString
			if tt.setup != nil {
				tokenString = tt.setup()
			}

			claims, err := jwtService.ValidateToken(tokenString)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
			}
		})
	}
}
