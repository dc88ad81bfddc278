package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/auth"
	"github.com/judyrop/storefront/models"
)

type RegisterInput struct {
	Email           string        `json:"email" binding:"required,email"`
	Password        string        `json:"password" binding:"required,min=8"`
	PasswordConfirm string        `json:"password_confirm" binding:"required,eqfield=Password"`
	Name            string        `json:"name" binding:"required"`
	Phone           string        `json:"phone"`
	Birthdate       string        `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	Gender          models.Gender `json:"gender" binding:"omitempty,oneof=MALE FEMALE"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type UpdateProfileInput struct {
	Name      *string        `json:"name" binding:"omitempty,min=1"`
	Phone     *string        `json:"phone"`
	Birthdate *string        `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	Gender    *models.Gender `json:"gender" binding:"omitempty,oneof=MALE FEMALE"`
}

type ChangePasswordInput struct {
	CurrentPassword    string `json:"currentPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required,min=8"`
	NewPasswordConfirm string `json:"newPassword_confirm" binding:"required,eqfield=NewPassword"`
}

type UserService struct {
	db     *gorm.DB
	tokens *auth.TokenIssuer
}

func NewUserService(db *gorm.DB, tokens *auth.TokenIssuer) *UserService {
	return &UserService{db: db, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailTaken also counts soft-deleted accounts; the unique index still holds them.
func emailTaken(db *gorm.DB, email string, exceptID uint) (bool, error) {
	q := db.Unscoped().Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Password != in.PasswordConfirm {
		return nil, apperr.BadRequest("passwords do not match")
	}
	user := models.User{
		Email:     in.Email,
		Name:      in.Name,
		Phone:     in.Phone,
		Birthdate: in.Birthdate,
		Gender:    in.Gender,
		Role:      models.RoleUser,
	}
	if err := createUser(dbWith(ctx, s.db), &user, in.Password); err != nil {
		return nil, err
	}
	return &user, nil
}

// createUser hashes password into user and inserts it.
func createUser(db *gorm.DB, user *models.User, password string) error {
	email := normalizeEmail(user.Email)
	user.Email = email
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperr.Internal(err, "could not create account")
	}
	user.Password = hash
	err = db.Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, email, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("email %s is already registered", email)
		}
		return duplicateAs(tx.Create(user).Error,
			apperr.Conflict("email %s is already registered", email))
	})
	if err != nil {
		return err
	}
	log.Printf("[USER] [INFO] account %d created with role %s", user.ID, user.Role)
	return nil
}

// Login answers 405 for both an unknown email and a wrong password.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	var user models.User
	err := dbWith(ctx, s.db).Where("email = ?", normalizeEmail(in.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.InvalidCredentials()
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		return nil, apperr.InvalidCredentials()
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Internal(err, "could not issue token")
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *UserService) Me(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := first(dbWith(ctx, s.db), &user, userID, "user"); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail lets externally issued ID tokens map onto local accounts.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := dbWith(ctx, s.db).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	db := dbWith(ctx, s.db)
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
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
	if len(updates) > 0 {
		if err := db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Me(ctx, userID)
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	if in.NewPassword != in.NewPasswordConfirm {
		return apperr.BadRequest("new passwords do not match")
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, in.CurrentPassword) {
		return apperr.Forbidden("current password is incorrect")
	}
	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return apperr.Internal(err, "could not change password")
	}
	return dbWith(ctx, s.db).Model(user).Update("password", hash).Error
}
