package repositories

import (
	"errors"

	"stockage-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrLastAdmin   = errors.New("cannot delete the last remaining admin profile")
	ErrEmailInUse  = errors.New("a profile with this email already exists")
	ErrInvalidRole = errors.New("role must be admin or client")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

// ProfileInput carries the writable fields of a profile.
type ProfileInput struct {
	FullName    string `json:"full_name" validate:"required,min=2"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role"`
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListProfiles returns every profile ordered by company name, passwords
// scrubbed. Admin-only at the route layer.
func (r *UserRepository) ListProfiles() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("company_name ASC, id ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// CreateProfile registers a profile with a hashed password. Role defaults
// to client.
func (r *UserRepository) CreateProfile(actorID uint, input ProfileInput) (*models.User, error) {
	if input.Role == "" {
		input.Role = models.RoleClient
	}
	if input.Role != models.RoleAdmin && input.Role != models.RoleClient {
		return nil, ErrInvalidRole
	}

	var existing models.User
	if err := r.db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		FullName:    input.FullName,
		CompanyName: input.CompanyName,
		Email:       input.Email,
		Password:    string(hashed),
		Role:        input.Role,
		CreatedBy:   int(actorID),
	}
	if err := r.db.Create(&user).Error; err != nil {
		return nil, err
	}

	user.Password = ""
	return &user, nil
}

// AdminCount returns how many admin profiles exist.
func (r *UserRepository) AdminCount() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error
	return count, err
}

// DeleteProfile removes a profile together with its materials, their
// movement history and its sessions, all in one transaction. Deleting the
// last remaining admin is rejected so the system can never lock every
// administrator out.
func (r *UserRepository) DeleteProfile(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		if user.Role == models.RoleAdmin {
			var admins int64
			if err := tx.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}

		var materialIDs []uint
		if err := tx.Model(&models.Material{}).Where("client_id = ?", id).Pluck("id", &materialIDs).Error; err != nil {
			return err
		}
		if len(materialIDs) > 0 {
			if err := tx.Where("material_id IN ?", materialIDs).Delete(&models.Movement{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("id IN ?", materialIDs).Delete(&models.Material{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.UserSession{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.User{}, id).Error
	})
}
