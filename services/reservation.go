package services

import (
	"math"
	"time"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"gorm.io/gorm"
)

type ReservationService struct {
	db *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{db: db}
}

// TotalDue derives the amount owed from the property's monthly rate:
// a daily rate of monthlyPrice/30 times the stay length in days, where
// partial days round up.
func TotalDue(monthlyPrice float64, checkIn, checkOut time.Time) float64 {
	days := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return (monthlyPrice / 30) * float64(days)
}

// Create books a property for [checkIn, checkOut). The overlap check and the
// insert run inside one transaction so two concurrent requests cannot both
// pass the check and double-book the interval.
func (s *ReservationService) Create(tenantID, propertyID uint, checkIn, checkOut time.Time) (*models.Reservation, error) {
	if !checkIn.Before(checkOut) {
		return nil, utils.NewBadRequest("La fecha de salida debe ser posterior a la de entrada")
	}

	var reservation models.Reservation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.First(&property, propertyID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NewNotFound("Propiedad no encontrada")
			}
			return err
		}

		// Interval overlap: checkIn < existing.checkOut AND checkOut > existing.checkIn
		var overlapping int64
		err := tx.Model(&models.Reservation{}).
			Where("property_id = ?", propertyID).
			Where("status IN ?", []string{models.ReservationPending, models.ReservationConfirmed}).
			Where("check_in < ? AND check_out > ?", checkOut, checkIn).
			Count(&overlapping).Error
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return utils.NewBadRequest("La propiedad no está disponible en las fechas seleccionadas")
		}

		reservation = models.Reservation{
			PropertyID: propertyID,
			TenantID:   tenantID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			TotalDue:   TotalDue(property.MonthlyPrice, checkIn, checkOut),
			Status:     models.ReservationPending,
		}
		return tx.Create(&reservation).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Property").First(&reservation, reservation.ID).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListByTenant returns the tenant's reservations newest first, each carrying
// the property's primary photo.
func (s *ReservationService) ListByTenant(tenantID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.
		Preload("Property").
		Preload("Property.Photos", "is_primary = ?", true).
		Preload("Contract").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// Cancel moves a pending or confirmed reservation to cancelled. Only the
// owning tenant may cancel.
func (s *ReservationService) Cancel(id, tenantID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db.First(&reservation, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Reserva no encontrada")
		}
		return nil, err
	}

	if reservation.TenantID != tenantID {
		return nil, utils.NewForbidden("No puedes cancelar una reserva de otro inquilino")
	}

	if reservation.Status != models.ReservationPending && reservation.Status != models.ReservationConfirmed {
		return nil, utils.NewBadRequest("No se puede cancelar esta reserva")
	}

	reservation.Status = models.ReservationCancelled
	if err := s.db.Save(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Decide lets the property owner confirm or reject a pending reservation.
func (s *ReservationService) Decide(id, ownerID uint, status string) (*models.Reservation, error) {
	if status != models.ReservationConfirmed && status != models.ReservationRejected {
		return nil, utils.NewBadRequest("Estado inválido")
	}

	var reservation models.Reservation
	if err := s.db.Preload("Property").First(&reservation, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Reserva no encontrada")
		}
		return nil, err
	}

	if reservation.Property == nil || reservation.Property.OwnerID != ownerID {
		return nil, utils.NewForbidden("Solo el propietario puede decidir sobre esta reserva")
	}

	if reservation.Status != models.ReservationPending {
		return nil, utils.NewBadRequest("La reserva ya fue decidida")
	}

	reservation.Status = status
	if err := s.db.Save(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListByOwner returns reservations over every property the landlord owns.
func (s *ReservationService) ListByOwner(ownerID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.
		Joins("JOIN properties p ON p.id = reservations.property_id").
		Where("p.owner_id = ?", ownerID).
		Preload("Property").
		Preload("Tenant").
		Order("reservations.created_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}
