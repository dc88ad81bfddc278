package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/models"
)

func ParseInquiryType(s string) (models.InquiryType, error) {
	switch t := models.InquiryType(strings.ToUpper(strings.TrimSpace(s))); t {
	case models.InquiryTypeDelivery, models.InquiryTypeProduct, models.InquiryTypeExchangeReturn,
		models.InquiryTypeMember, models.InquiryTypeOther:
		return t, nil
	}
	return "", fmt.Errorf("invalid inquiry type %q", s)
}

func ParseInquiryStatus(s string) (models.InquiryStatus, error) {
	switch st := models.InquiryStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case models.InquiryStatusPending, models.InquiryStatusAnswered:
		return st, nil
	}
	return "", fmt.Errorf("invalid inquiry status %q", s)
}

type CreateInquiryInput struct {
	Type      models.InquiryType `json:"type" binding:"required,oneof=DELIVERY PRODUCT EXCHANGE_RETURN MEMBER OTHER"`
	Title     string             `json:"title" binding:"required"`
	Content   string             `json:"content" binding:"required,min=10"`
	ImageURLs []string           `json:"imageUrls" binding:"omitempty,dive,url"`
}

type UpdateInquiryInput struct {
	Type      *models.InquiryType `json:"type" binding:"omitempty,oneof=DELIVERY PRODUCT EXCHANGE_RETURN MEMBER OTHER"`
	Title     *string             `json:"title" binding:"omitempty,min=1"`
	Content   *string             `json:"content" binding:"omitempty,min=10"`
	ImageURLs *[]string           `json:"imageUrls" binding:"omitempty,dive,url"`
}

// InquiryFilter is shared by the customer and admin listings; admins
// additionally use Search and Dates.
type InquiryFilter struct {
	Type   models.InquiryType
	Status models.InquiryStatus
	Search string
	Dates  DateRange
}

type InquiryService struct {
	db *gorm.DB
}

func NewInquiryService(db *gorm.DB) *InquiryService {
	return &InquiryService{db: db}
}

func (s *InquiryService) Create(ctx context.Context, userID uint, in CreateInquiryInput) (*models.Inquiry, error) {
	inquiry := models.Inquiry{
		UserID:  userID,
		Type:    in.Type,
		Title:   in.Title,
		Content: in.Content,
		Status:  models.InquiryStatusPending,
	}
	err := dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Images").Create(&inquiry).Error; err != nil {
			return err
		}
		inquiry.Images = models.InquiryImagesFromURLs(inquiry.ID, in.ImageURLs)
		if len(inquiry.Images) == 0 {
			return nil
		}
		return tx.Create(&inquiry.Images).Error
	})
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (s *InquiryService) ListMine(ctx context.Context, userID uint, filter InquiryFilter, page Page) (*List[models.Inquiry], error) {
	q := dbWith(ctx, s.db).Model(&models.Inquiry{}).Where("user_id = ?", userID)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	return pageInquiries(q, page, false)
}

func pageInquiries(q *gorm.DB, page Page, withUser bool) (*List[models.Inquiry], error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	find := q.Preload("Images", imagesInOrder)
	if withUser {
		find = find.Preload("User")
	}
	var inquiries []models.Inquiry
	err := find.Order("inquiries.created_at DESC").Order("inquiries.id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&inquiries).Error
	if err != nil {
		return nil, err
	}
	return newList(inquiries, total, page), nil
}

func (s *InquiryService) Detail(ctx context.Context, userID, inquiryID uint) (*models.Inquiry, error) {
	inquiry, err := ownedInquiry(dbWith(ctx, s.db).Preload("Images", imagesInOrder), userID, inquiryID)
	if err != nil {
		return nil, err
	}
	return inquiry, nil
}

// ownedInquiry reports another user's inquiry as missing.
func ownedInquiry(db *gorm.DB, userID, inquiryID uint) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := first(db, &inquiry, inquiryID, "inquiry"); err != nil {
		return nil, err
	}
	if inquiry.UserID != userID {
		return nil, apperr.NotFound("inquiry %d not found", inquiryID)
	}
	return &inquiry, nil
}

func (s *InquiryService) Update(ctx context.Context, userID, inquiryID uint, in UpdateInquiryInput) (*models.Inquiry, error) {
	db := dbWith(ctx, s.db)
	err := db.Transaction(func(tx *gorm.DB) error {
		inquiry, err := ownedInquiry(tx, userID, inquiryID)
		if err != nil {
			return err
		}
		if inquiry.Answered() {
			return apperr.Forbidden("answered inquiries cannot be edited")
		}

		updates := map[string]interface{}{}
		if in.Type != nil {
			updates["type"] = *in.Type
		}
		if in.Title != nil {
			updates["title"] = *in.Title
		}
		if in.Content != nil {
			updates["content"] = *in.Content
		}
		if len(updates) > 0 {
			res := tx.Model(&models.Inquiry{}).
				Where("id = ? AND status = ?", inquiryID, models.InquiryStatusPending).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.Forbidden("answered inquiries cannot be edited")
			}
		}

		if in.ImageURLs != nil {
			if err := tx.Where("inquiry_id = ?", inquiryID).Delete(&models.InquiryImage{}).Error; err != nil {
				return err
			}
			if images := models.InquiryImagesFromURLs(inquiryID, *in.ImageURLs); len(images) > 0 {
				return tx.Create(&images).Error
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ownedInquiry(db.Preload("Images", imagesInOrder), userID, inquiryID)
}

func (s *InquiryService) Delete(ctx context.Context, userID, inquiryID uint) error {
	return dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		inquiry, err := ownedInquiry(tx, userID, inquiryID)
		if err != nil {
			return err
		}
		if inquiry.Answered() {
			return apperr.Forbidden("answered inquiries cannot be deleted")
		}
		return deleteInquiry(tx, inquiryID, true)
	})
}

// deleteInquiry removes the inquiry before its images. With pendingOnly the
// status is checked again by the delete itself, so an answer that lands
// after the caller's read still blocks it.
func deleteInquiry(tx *gorm.DB, inquiryID uint, pendingOnly bool) error {
	q := tx.Where("id = ?", inquiryID)
	if pendingOnly {
		q = q.Where("status = ?", models.InquiryStatusPending)
	}
	res := q.Delete(&models.Inquiry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if pendingOnly {
			return apperr.Forbidden("answered inquiries cannot be deleted")
		}
		return apperr.NotFound("inquiry %d not found", inquiryID)
	}
	return tx.Where("inquiry_id = ?", inquiryID).Delete(&models.InquiryImage{}).Error
}
