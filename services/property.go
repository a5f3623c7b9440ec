package services

import (
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"gorm.io/gorm"
)

type PropertyService struct {
	db *gorm.DB
}

func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{db: db}
}

type ServiceLinkInput struct {
	ServiceID       uint `json:"serviceID" validate:"required"`
	IncludedInPrice bool `json:"includedInPrice"`
}

type PhotoInput struct {
	URL       string `json:"url" validate:"required,url"`
	IsPrimary bool   `json:"isPrimary"`
}

type PropertyInput struct {
	Title            string             `json:"title" validate:"required,min=5,max=150"`
	Description      string             `json:"description" validate:"required,min=10"`
	MonthlyPrice     float64            `json:"monthlyPrice" validate:"required,gt=0"`
	Address          string             `json:"address" validate:"required"`
	Lat              float32            `json:"lat"`
	Lng              float32            `json:"lng"`
	Furnished        bool               `json:"furnished"`
	StatusID         uint               `json:"statusID" validate:"required"`
	TargetAudienceID *uint              `json:"targetAudienceID"`
	Services         []ServiceLinkInput `json:"services" validate:"dive"`
	Photos           []PhotoInput       `json:"photos" validate:"dive"`
}

// Create publishes a property. The owner must have a verified profile; the
// base row, service links and photos are written in one transaction.
func (s *PropertyService) Create(ownerID uint, input PropertyInput) (*models.Property, error) {
	var owner models.User
	if err := s.db.Preload("VerifiedProfile").First(&owner, ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Usuario no encontrado")
		}
		return nil, err
	}

	if owner.VerifiedProfile == nil || !owner.VerifiedProfile.IsVerified {
		return nil, utils.NewForbidden("Debes tener un perfil verificado para publicar propiedades")
	}

	if err := s.validateCatalogs(input); err != nil {
		return nil, err
	}

	var property models.Property
	err := s.db.Transaction(func(tx *gorm.DB) error {
		property = models.Property{
			OwnerID:          ownerID,
			StatusID:         input.StatusID,
			TargetAudienceID: input.TargetAudienceID,
			Title:            input.Title,
			Description:      input.Description,
			MonthlyPrice:     input.MonthlyPrice,
			Address:          input.Address,
			Lat:              input.Lat,
			Lng:              input.Lng,
			Furnished:        input.Furnished,
		}
		if err := tx.Create(&property).Error; err != nil {
			return err
		}

		for _, svc := range input.Services {
			link := models.PropertyService{
				PropertyID:      property.ID,
				ServiceID:       svc.ServiceID,
				IncludedInPrice: svc.IncludedInPrice,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		for _, photo := range input.Photos {
			row := models.PropertyPhoto{
				PropertyID: property.ID,
				URL:        photo.URL,
				IsPrimary:  photo.IsPrimary,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.load(property.ID)
}

// Update replaces the base fields and, transactionally, the service links
// and photos. Owner only.
func (s *PropertyService) Update(id, ownerID uint, input PropertyInput) (*models.Property, error) {
	var property models.Property
	if err := s.db.First(&property, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Propiedad no encontrada")
		}
		return nil, err
	}

	if property.OwnerID != ownerID {
		return nil, utils.NewForbidden("No eres el propietario de esta propiedad")
	}

	if err := s.validateCatalogs(input); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":              input.Title,
			"description":        input.Description,
			"monthly_price":      input.MonthlyPrice,
			"address":            input.Address,
			"lat":                input.Lat,
			"lng":                input.Lng,
			"furnished":          input.Furnished,
			"status_id":          input.StatusID,
			"target_audience_id": input.TargetAudienceID,
		}
		if err := tx.Model(&property).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("property_id = ?", property.ID).Delete(&models.PropertyService{}).Error; err != nil {
			return err
		}
		for _, svc := range input.Services {
			link := models.PropertyService{
				PropertyID:      property.ID,
				ServiceID:       svc.ServiceID,
				IncludedInPrice: svc.IncludedInPrice,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("property_id = ?", property.ID).Delete(&models.PropertyPhoto{}).Error; err != nil {
			return err
		}
		for _, photo := range input.Photos {
			row := models.PropertyPhoto{
				PropertyID: property.ID,
				URL:        photo.URL,
				IsPrimary:  photo.IsPrimary,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.load(property.ID)
}

func (s *PropertyService) Delete(id, ownerID uint, role string) error {
	var property models.Property
	if err := s.db.First(&property, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.NewNotFound("Propiedad no encontrada")
		}
		return err
	}

	if role != models.RoleAdmin && property.OwnerID != ownerID {
		return utils.NewForbidden("No eres el propietario de esta propiedad")
	}

	return s.db.Delete(&property).Error
}

func (s *PropertyService) ListByOwner(ownerID uint) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.
		Preload("Status").
		Preload("TargetAudience").
		Preload("Services.Service").
		Preload("Photos").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (s *PropertyService) load(id uint) (*models.Property, error) {
	var property models.Property
	err := s.db.
		Preload("Status").
		Preload("TargetAudience").
		Preload("Owner").
		Preload("Services.Service").
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary DESC") }).
		First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (s *PropertyService) validateCatalogs(input PropertyInput) error {
	var status models.PropertyStatus
	if err := s.db.First(&status, input.StatusID).Error; err != nil {
		return utils.NewBadRequest("Estado de propiedad inválido")
	}

	if input.TargetAudienceID != nil {
		var audience models.TargetAudience
		if err := s.db.First(&audience, *input.TargetAudienceID).Error; err != nil {
			return utils.NewBadRequest("Tipo de público objetivo inválido")
		}
	}

	for _, svc := range input.Services {
		var item models.ServiceItem
		if err := s.db.First(&item, svc.ServiceID).Error; err != nil {
			return utils.NewBadRequest("Uno o más servicios no existen")
		}
	}
	return nil
}
