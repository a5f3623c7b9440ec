package services

import (
	"fmt"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Uploader is the storage collaborator: a byte buffer plus filename in, a
// public URL out.
type Uploader interface {
	Upload(data []byte, filename, contentType string) (string, error)
}

type ContractService struct {
	db    *gorm.DB
	store Uploader
}

func NewContractService(db *gorm.DB, store Uploader) *ContractService {
	return &ContractService{db: db, store: store}
}

// Generate renders the lease for a confirmed (or completed) reservation and
// upserts the contract row keyed by reservation. Regenerating replaces the
// stored document reference.
func (s *ContractService) Generate(reservationID, tenantID uint) (*models.Contract, error) {
	var reservation models.Reservation
	err := s.db.
		Preload("Tenant").
		Preload("Property.Owner.VerifiedProfile").
		First(&reservation, reservationID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Reserva no encontrada")
		}
		return nil, err
	}

	if reservation.TenantID != tenantID {
		return nil, utils.NewForbidden("No autorizado")
	}

	if reservation.Status != models.ReservationConfirmed && reservation.Status != models.ReservationCompleted {
		return nil, utils.NewBadRequest("La reserva debe estar confirmada para generar el contrato")
	}

	data := s.contractData(&reservation)

	pdfBytes, err := RenderContractPDF(data)
	if err != nil {
		return nil, fmt.Errorf("error rendering contract: %w", err)
	}

	filename := fmt.Sprintf("contrato-%d-%s.pdf", reservation.ID, uuid.NewString())
	url, err := s.store.Upload(pdfBytes, filename, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("error uploading contract: %w", err)
	}

	contract := models.Contract{
		ReservationID: reservation.ID,
		DocumentURL:   url,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reservation_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document_url", "updated_at"}),
	}).Create(&contract).Error
	if err != nil {
		return nil, err
	}

	// On conflict the returned struct keeps the insert's zero ID; reload.
	if err := s.db.Where("reservation_id = ?", reservation.ID).First(&contract).Error; err != nil {
		return nil, err
	}

	// A contracted lease is an executed one: the reservation leaves the
	// cancellable states once the document exists.
	if reservation.Status == models.ReservationConfirmed {
		err = s.db.Model(&models.Reservation{}).
			Where("id = ?", reservation.ID).
			Update("status", models.ReservationCompleted).Error
		if err != nil {
			return nil, err
		}
	}

	return &contract, nil
}

// GetByReservation returns the stored document reference. Same authorization
// as Generate.
func (s *ContractService) GetByReservation(reservationID, tenantID uint) (*models.Contract, error) {
	var reservation models.Reservation
	if err := s.db.First(&reservation, reservationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Reserva no encontrada")
		}
		return nil, err
	}

	if reservation.TenantID != tenantID {
		return nil, utils.NewForbidden("No autorizado")
	}

	var contract models.Contract
	if err := s.db.Where("reservation_id = ?", reservationID).First(&contract).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Contrato no encontrado")
		}
		return nil, err
	}
	return &contract, nil
}

func (s *ContractService) contractData(reservation *models.Reservation) ContractData {
	data := ContractData{
		MonthlyPrice: 0,
		StartDate:    reservation.CheckIn,
		EndDate:      reservation.CheckOut,
	}

	if reservation.Tenant != nil {
		data.TenantName = reservation.Tenant.FullName
	}

	// Tenants are not required to verify; the document keeps a blank line
	// when no national ID is on file.
	var profile models.VerifiedProfile
	if err := s.db.Where("user_id = ?", reservation.TenantID).First(&profile).Error; err == nil {
		data.TenantID = profile.NationalID
	}

	if property := reservation.Property; property != nil {
		data.Address = property.Address
		data.Description = property.Description
		data.MonthlyPrice = property.MonthlyPrice
		if owner := property.Owner; owner != nil {
			data.LandlordName = owner.FullName
			if owner.VerifiedProfile != nil {
				data.LandlordID = owner.VerifiedProfile.NationalID
			}
		}
	}

	return data
}
