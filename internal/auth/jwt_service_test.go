package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"bugtrail/internal/model"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := service.Generate(userID, "dana@example.com", model.RoleUser)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "dana@example.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID, "token must carry a JTI for revocation")
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_Generate_NilUserID(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.Generate(uuid.Nil, "dana@example.com", model.RoleUser)
	assert.ErrorIs(t, err, ErrInvalidUserID)
	assert.Empty(t, token)
}

func TestJWTService_Validate_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").Generate(uuid.New(), "dana@example.com", model.RoleUser)
	assert.NoError(t, err)

	_, err = NewJWTService("secret-b").Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Validate_Garbage(t *testing.T) {
	service := NewJWTService("test-secret")

	for _, input := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		_, err := service.Validate(input)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestJWTService_Validate_Expired(t *testing.T) {
	secret := "test-secret"
	claims := &Claims{
		UserID: uuid.New(),
		Email:  "dana@example.com",
		Role:   model.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)

	_, err = NewJWTService(secret).Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Validate_RejectsUnsignedToken(t *testing.T) {
	claims := &Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = NewJWTService("test-secret").Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
