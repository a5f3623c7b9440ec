package services

import (
	"time"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"gorm.io/gorm"
)

type VerificationService struct {
	db *gorm.DB
}

func NewVerificationService(db *gorm.DB) *VerificationService {
	return &VerificationService{db: db}
}

type VerificationRequestInput struct {
	NationalID  string `json:"nationalID" validate:"required,min=10,max=13"`
	Phone       string `json:"phone" validate:"required"`
	Bio         string `json:"bio"`
	DocumentURL string `json:"documentURL"`
}

// Request creates or refreshes the landlord verification solicitation.
// A nationalID already registered to another user is a conflict.
func (s *VerificationService) Request(userID uint, input VerificationRequestInput) (*models.VerifiedProfile, error) {
	var existing models.VerifiedProfile
	err := s.db.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		if existing.IsVerified {
			return nil, utils.NewBadRequest("Tu cuenta ya está verificada")
		}
		if existing.Status == models.VerificationPending {
			return nil, utils.NewBadRequest("Ya tienes una solicitud de verificación pendiente")
		}
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var inUse models.VerifiedProfile
	if err := s.db.Where("national_id = ?", input.NationalID).First(&inUse).Error; err == nil && inUse.UserID != userID {
		return nil, utils.NewConflict("Esta cédula/RUC ya está registrada")
	}

	profile := models.VerifiedProfile{
		UserID:      userID,
		NationalID:  input.NationalID,
		Phone:       input.Phone,
		Bio:         input.Bio,
		DocumentURL: input.DocumentURL,
		Status:      models.VerificationPending,
		RequestedAt: time.Now(),
	}

	if existing.ID != 0 {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		profile.Notes = ""
	}

	if err := s.db.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Status returns the caller's verification state.
func (s *VerificationService) Status(userID uint) (*models.VerifiedProfile, error) {
	var profile models.VerifiedProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("No has solicitado verificación")
		}
		return nil, err
	}
	return &profile, nil
}

// ListPending returns solicitations awaiting review, oldest first.
func (s *VerificationService) ListPending() ([]models.VerifiedProfile, error) {
	var profiles []models.VerifiedProfile
	err := s.db.
		Preload("User").
		Where("status = ?", models.VerificationPending).
		Order("requested_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// Review approves or rejects a solicitation and, on approval, promotes the
// user to landlord.
func (s *VerificationService) Review(profileID uint, approve bool, notes string) (*models.VerifiedProfile, error) {
	var profile models.VerifiedProfile
	if err := s.db.First(&profile, profileID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Solicitud no encontrada")
		}
		return nil, err
	}

	if profile.Status != models.VerificationPending {
		return nil, utils.NewBadRequest("La solicitud ya fue revisada")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if approve {
			profile.Status = models.VerificationApproved
			profile.IsVerified = true
		} else {
			profile.Status = models.VerificationRejected
		}
		profile.Notes = notes
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}

		if approve {
			return tx.Model(&models.User{}).
				Where("id = ?", profile.UserID).
				Update("role", models.RoleLandlord).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
