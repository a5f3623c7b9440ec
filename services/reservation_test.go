package services

import (
	"testing"
	"time"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalDue(t *testing.T) {
	checkIn := date(2026, time.March, 1)

	// 300/month over 10 days: (300/30)*10 = 100.00
	assert.InDelta(t, 100.0, TotalDue(300, checkIn, checkIn.AddDate(0, 0, 10)), 0.001)

	// partial days round up
	assert.InDelta(t, 20.0, TotalDue(300, checkIn, checkIn.Add(25*time.Hour)), 0.001)
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	db := openTestDB(t)
	svc := NewReservationService(db)

	landlord := createUser(t, db, "Dueño", "duo@test.com", models.RoleLandlord)
	tenant := createUser(t, db, "Inquilino", "inq@test.com", models.RoleTenant)
	other := createUser(t, db, "Otro", "otro@test.com", models.RoleTenant)
	property := createProperty(t, db, landlord.ID, 300)

	first, err := svc.Create(tenant.ID, property.ID, date(2026, time.March, 1), date(2026, time.March, 11))
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, first.Status)
	assert.InDelta(t, 100.0, first.TotalDue, 0.001)

	// overlapping interval from another tenant
	_, err = svc.Create(other.ID, property.ID, date(2026, time.March, 5), date(2026, time.March, 15))
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)

	// touching intervals do not overlap: [1,11) then [11,20)
	_, err = svc.Create(other.ID, property.ID, date(2026, time.March, 11), date(2026, time.March, 20))
	assert.NoError(t, err)
}

func TestCreateReservationIgnoresInactiveStatuses(t *testing.T) {
	db := openTestDB(t)
	svc := NewReservationService(db)

	landlord := createUser(t, db, "Dueño", "duo@test.com", models.RoleLandlord)
	tenant := createUser(t, db, "Inquilino", "inq@test.com", models.RoleTenant)
	property := createProperty(t, db, landlord.ID, 300)

	createReservation(t, db, property.ID, tenant.ID,
		date(2026, time.March, 1), date(2026, time.March, 11), models.ReservationCancelled)

	_, err := svc.Create(tenant.ID, property.ID, date(2026, time.March, 1), date(2026, time.March, 11))
	assert.NoError(t, err)
}

func TestCreateReservationInvalidDates(t *testing.T) {
	db := openTestDB(t)
	svc := NewReservationService(db)

	landlord := createUser(t, db, "Dueño", "duo@test.com", models.RoleLandlord)
	tenant := createUser(t, db, "Inquilino", "inq@test.com", models.RoleTenant)
	property := createProperty(t, db, landlord.ID, 300)

	_, err := svc.Create(tenant.ID, property.ID, date(2026, time.March, 11), date(2026, time.March, 1))
	require.Error(t, err)

	_, err = svc.Create(tenant.ID, property.ID, date(2026, time.March, 1), date(2026, time.March, 1))
	require.Error(t, err)
}

func TestCancelReservation(t *testing.T) {
	db := openTestDB(t)
	svc := NewReservationService(db)

	landlord := createUser(t, db, "Dueño", "duo@test.com", models.RoleLandlord)
	tenant := createUser(t, db, "Inquilino", "inq@test.com", models.RoleTenant)
	stranger := createUser(t, db, "Otro", "otro@test.com", models.RoleTenant)
	property := createProperty(t, db, landlord.ID, 300)

	reservation := createReservation(t, db, property.ID, tenant.ID,
		date(2026, time.March, 1), date(2026, time.March, 11), models.ReservationPending)

	// only the owning tenant may cancel
	_, err := svc.Cancel(reservation.ID, stranger.ID)
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Status)

	cancelled, err := svc.Cancel(reservation.ID, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationCancelled, cancelled.Status)

	// cancelled is terminal
	_, err = svc.Cancel(reservation.ID, tenant.ID)
	require.Error(t, err)
}

func TestDecideReservation(t *testing.T) {
	db := openTestDB(t)
	svc := NewReservationService(db)

	landlord := createUser(t, db, "Dueño", "duo@test.com", models.RoleLandlord)
	tenant := createUser(t, db, "Inquilino", "inq@test.com", models.RoleTenant)
	intruder := createUser(t, db, "Otro", "otro@test.com", models.RoleLandlord)
	property := createProperty(t, db, landlord.ID, 300)

	reservation := createReservation(t, db, property.ID, tenant.ID,
		date(2026, time.March, 1), date(2026, time.March, 11), models.ReservationPending)

	_, err := svc.Decide(reservation.ID, intruder.ID, models.ReservationConfirmed)
	require.Error(t, err)

	confirmed, err := svc.Decide(reservation.ID, landlord.ID, models.ReservationConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, confirmed.Status)

	// already decided
	_, err = svc.Decide(reservation.ID, landlord.ID, models.ReservationRejected)
	require.Error(t, err)
}

func TestListByTenantNewestFirstWithPrimaryPhoto(t *testing.T) {
	db := openTestDB(t)
	svc := NewReservationService(db)

	landlord := createUser(t, db, "Dueño", "duo@test.com", models.RoleLandlord)
	tenant := createUser(t, db, "Inquilino", "inq@test.com", models.RoleTenant)
	property := createProperty(t, db, landlord.ID, 300)

	db.Create(&models.PropertyPhoto{PropertyID: property.ID, URL: "https://cdn.test/a.jpg", IsPrimary: false})
	db.Create(&models.PropertyPhoto{PropertyID: property.ID, URL: "https://cdn.test/b.jpg", IsPrimary: true})

	old := createReservation(t, db, property.ID, tenant.ID,
		date(2026, time.January, 1), date(2026, time.January, 10), models.ReservationCompleted)
	db.Model(old).Update("created_at", time.Now().Add(-48*time.Hour))

	createReservation(t, db, property.ID, tenant.ID,
		date(2026, time.April, 1), date(2026, time.April, 10), models.ReservationPending)

	reservations, err := svc.ListByTenant(tenant.ID)
	require.NoError(t, err)
	require.Len(t, reservations, 2)
	assert.Equal(t, models.ReservationPending, reservations[0].Status)

	require.NotNil(t, reservations[0].Property)
	require.Len(t, reservations[0].Property.Photos, 1)
	assert.Equal(t, "https://cdn.test/b.jpg", reservations[0].Property.Photos[0].URL)
}
