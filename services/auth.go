package services

import (
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates a user, hashing the password, and returns it together
// with a signed access token. Duplicate emails are a conflict.
func (s *AuthService) Register(fullName, email, password, role string) (*models.User, string, error) {
	if role != models.RoleTenant && role != models.RoleLandlord {
		return nil, "", utils.NewBadRequest("Rol inválido")
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, "", utils.NewConflict("El correo electrónico ya está registrado")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		FullName: fullName,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", err
	}

	token, err := utils.CreateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", utils.NewUnauthorized("Credenciales inválidas")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", utils.NewUnauthorized("Credenciales inválidas")
	}

	token, err := utils.CreateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Profile returns the user with their verification state.
func (s *AuthService) Profile(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("VerifiedProfile").First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Usuario no encontrado")
		}
		return nil, err
	}
	return &user, nil
}
