package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/storage"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own in-memory database with the full schema
// and seeded catalogs.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := storage.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// memoryStore satisfies Uploader and Remover without touching the network.
type memoryStore struct {
	uploads []string
	deleted []string
}

func (m *memoryStore) Upload(data []byte, filename, contentType string) (string, error) {
	m.uploads = append(m.uploads, filename)
	return "https://cdn.test/" + filename, nil
}

func (m *memoryStore) Delete(filename string) error {
	m.deleted = append(m.deleted, filename)
	return nil
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()
	user := models.User{FullName: name, Email: email, Password: "x", Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createProperty(t *testing.T, db *gorm.DB, ownerID uint, monthlyPrice float64) *models.Property {
	t.Helper()
	property := models.Property{
		OwnerID:      ownerID,
		StatusID:     1,
		Title:        "Departamento céntrico",
		Description:  "Dos habitaciones, cerca de la universidad",
		MonthlyPrice: monthlyPrice,
		Address:      "Av. Universitaria y Calle 5",
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("create property: %v", err)
	}
	return &property
}

func createReservation(t *testing.T, db *gorm.DB, propertyID, tenantID uint, checkIn, checkOut time.Time, status string) *models.Reservation {
	t.Helper()
	reservation := models.Reservation{
		PropertyID: propertyID,
		TenantID:   tenantID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     status,
	}
	if err := db.Create(&reservation).Error; err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return &reservation
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
