package storage

import (
	"fmt"
	"log"
	"os"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres using DB_CONNECTION_STRING, runs migrations and
// seeds the catalog tables. The handle is passed down to the services; there
// is no package-level singleton.
func Open() (*gorm.DB, error) {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING environment variable is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error connecting to db: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema and seeds catalogs. Split out from Open so tests
// can run it against their own database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.VerifiedProfile{},
		&models.PropertyStatus{},
		&models.TargetAudience{},
		&models.ServiceItem{},
		&models.Property{},
		&models.PropertyService{},
		&models.PropertyPhoto{},
		&models.Reservation{},
		&models.Contract{},
		&models.Incident{},
		&models.IncidentHistory{},
		&models.IncidentAttachment{},
		&models.IncidentComment{},
		&models.NotificationLog{},
	)
	if err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	seedCatalogs(db)
	return nil
}

func seedCatalogs(db *gorm.DB) {
	statuses := []string{"Disponible", "Rentada", "En mantenimiento"}
	for _, name := range statuses {
		if err := db.Where(models.PropertyStatus{Name: name}).FirstOrCreate(&models.PropertyStatus{Name: name}).Error; err != nil {
			log.Printf("seed property status %q: %v", name, err)
		}
	}

	audiences := []string{"Estudiantes", "Familias", "Profesionales", "Cualquiera"}
	for _, name := range audiences {
		if err := db.Where(models.TargetAudience{Name: name}).FirstOrCreate(&models.TargetAudience{Name: name}).Error; err != nil {
			log.Printf("seed target audience %q: %v", name, err)
		}
	}

	services := []string{"Agua", "Luz", "Internet", "Cable", "Garaje", "Lavandería"}
	for _, name := range services {
		if err := db.Where(models.ServiceItem{Name: name}).FirstOrCreate(&models.ServiceItem{Name: name}).Error; err != nil {
			log.Printf("seed service %q: %v", name, err)
		}
	}
}
