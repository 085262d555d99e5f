package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraiem/boutiqa/app/models"
)

func TestCreateAndParseAccessToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{Name: "Admin", Email: "admin@example.com", Role: models.ROLE_ADMIN}
	user.ID = 42

	raw, err := CreateAccessToken(user)
	require.NoError(t, err)

	claims, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, models.ROLE_ADMIN, claims.Role)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{Email: "admin@example.com", Role: models.ROLE_ADMIN}
	raw, err := CreateAccessToken(user)
	require.NoError(t, err)

	_, err = Parse(raw + "x")
	assert.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	user := &models.User{Email: "admin@example.com"}
	raw, err := CreateAccessToken(user)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	_, err = Parse(raw)
	assert.Error(t, err)
}
