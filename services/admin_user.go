package services

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/auth"
	"github.com/judyrop/storefront/models"
)

type AdminCreateUserInput struct {
	Email     string        `json:"email" binding:"required,email"`
	Password  string        `json:"password" binding:"required,min=8"`
	Name      string        `json:"name" binding:"required"`
	Phone     string        `json:"phone"`
	Birthdate string        `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	Gender    models.Gender `json:"gender" binding:"omitempty,oneof=MALE FEMALE"`
	Role      models.Role   `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

type AdminUpdateUserInput struct {
	Email     *string        `json:"email" binding:"omitempty,email"`
	Password  *string        `json:"password" binding:"omitempty,min=8"`
	Name      *string        `json:"name" binding:"omitempty,min=1"`
	Phone     *string        `json:"phone"`
	Birthdate *string        `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	Gender    *models.Gender `json:"gender" binding:"omitempty,oneof=MALE FEMALE"`
	Role      *models.Role   `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

type AdminUserService struct {
	db *gorm.DB
}

func NewAdminUserService(db *gorm.DB) *AdminUserService {
	return &AdminUserService{db: db}
}

func (s *AdminUserService) List(ctx context.Context, search string, page Page) (*List[models.User], error) {
	q := dbWith(ctx, s.db).Model(&models.User{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := likePattern(search)
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var users []models.User
	err := q.Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return newList(users, total, page), nil
}

func (s *AdminUserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := first(dbWith(ctx, s.db), &user, id, "user"); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AdminUserService) Create(ctx context.Context, in AdminCreateUserInput) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	user := models.User{
		Email:     in.Email,
		Name:      in.Name,
		Phone:     in.Phone,
		Birthdate: in.Birthdate,
		Gender:    in.Gender,
		Role:      role,
	}
	if err := createUser(dbWith(ctx, s.db), &user, in.Password); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AdminUserService) Update(ctx context.Context, id uint, in AdminUpdateUserInput) (*models.User, error) {
	db := dbWith(ctx, s.db)
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := first(tx, &user, id, "user"); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Email != nil {
			email := normalizeEmail(*in.Email)
			taken, err := emailTaken(tx, email, id)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("email %s is already registered", email)
			}
			updates["email"] = email
		}
		if in.Password != nil {
			hash, err := auth.HashPassword(*in.Password)
			if err != nil {
				return apperr.Internal(err, "could not update password")
			}
			updates["password"] = hash
		}
		if in.Name != nil {
			updates["name"] = *in.Name
		}
		if in.Phone != nil {
			updates["phone"] = *in.Phone
		}
		if in.Birthdate != nil {
			updates["birthdate"] = *in.Birthdate
		}
		if in.Gender != nil {
			updates["gender"] = *in.Gender
		}
		if in.Role != nil {
			updates["role"] = *in.Role
		}
		if len(updates) == 0 {
			return nil
		}
		return duplicateAs(tx.Model(&user).Updates(updates).Error,
			apperr.Conflict("email %v is already registered", updates["email"]))
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete is a soft delete; rows owned by the user keep its id.
func (s *AdminUserService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return apperr.BadRequest("administrators cannot delete their own account")
	}
	res := dbWith(ctx, s.db).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user %d not found", id)
	}
	log.Printf("[ADMIN] [INFO] user %d deleted by %d", id, actorID)
	return nil
}
