package services

import (
	"testing"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")

	db := openTestDB(t)
	svc := NewAuthService(db)

	user, token, err := svc.Register("María Vélez", "maria@test.com", "secreto123", models.RoleTenant)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleTenant, user.Role)
	assert.NotEqual(t, "secreto123", user.Password)

	// duplicate email
	_, _, err = svc.Register("Otra", "maria@test.com", "x12345", models.RoleTenant)
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Status)

	// admin cannot be self-assigned
	_, _, err = svc.Register("Listillo", "listo@test.com", "x12345", models.RoleAdmin)
	require.Error(t, err)

	logged, token, err := svc.Login("maria@test.com", "secreto123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)

	_, _, err = svc.Login("maria@test.com", "incorrecta")
	require.Error(t, err)
	appErr, ok = err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.Status)

	_, _, err = svc.Login("nadie@test.com", "x")
	require.Error(t, err)
}

func TestVerificationFlow(t *testing.T) {
	db := openTestDB(t)
	svc := NewVerificationService(db)

	user := createUser(t, db, "Pedro Loor", "pedro@test.com", models.RoleTenant)

	input := VerificationRequestInput{
		NationalID: "1310000009",
		Phone:      "0990000000",
		Bio:        "Propietario en Portoviejo",
	}
	profile, err := svc.Request(user.ID, input)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, profile.Status)

	// a second request while pending is rejected
	_, err = svc.Request(user.ID, input)
	require.Error(t, err)

	// another user cannot claim the same nationalID
	other := createUser(t, db, "Otra", "otra@test.com", models.RoleTenant)
	_, err = svc.Request(other.ID, input)
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Status)

	pending, err := svc.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)

	reviewed, err := svc.Review(profile.ID, true, "Documentos en regla")
	require.NoError(t, err)
	assert.True(t, reviewed.IsVerified)
	assert.Equal(t, models.VerificationApproved, reviewed.Status)

	// approval promotes the user to landlord
	var promoted models.User
	require.NoError(t, db.First(&promoted, user.ID).Error)
	assert.Equal(t, models.RoleLandlord, promoted.Role)

	// re-review is rejected
	_, err = svc.Review(profile.ID, false, "")
	require.Error(t, err)

	// verified accounts cannot re-request
	_, err = svc.Request(user.ID, input)
	require.Error(t, err)
}

func TestVerificationRejectAllowsRetry(t *testing.T) {
	db := openTestDB(t)
	svc := NewVerificationService(db)

	user := createUser(t, db, "Luis", "luis@test.com", models.RoleTenant)
	profile, err := svc.Request(user.ID, VerificationRequestInput{NationalID: "1310000010", Phone: "099"})
	require.NoError(t, err)

	rejected, err := svc.Review(profile.ID, false, "Documento ilegible")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, rejected.Status)
	assert.False(t, rejected.IsVerified)
	assert.Equal(t, "Documento ilegible", rejected.Notes)

	// the same user may submit again, keeping one row
	again, err := svc.Request(user.ID, VerificationRequestInput{NationalID: "1310000010", Phone: "098"})
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
	assert.Equal(t, models.VerificationPending, again.Status)
	assert.Empty(t, again.Notes)

	var count int64
	db.Model(&models.VerifiedProfile{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
