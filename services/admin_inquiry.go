package services

import (
	"context"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/models"
)

type AnswerInquiryInput struct {
	Answer string `json:"answer" binding:"required"`
}

type AdminInquiryService struct {
	db *gorm.DB
}

func NewAdminInquiryService(db *gorm.DB) *AdminInquiryService {
	return &AdminInquiryService{db: db}
}

func (s *AdminInquiryService) List(ctx context.Context, filter InquiryFilter, page Page) (*List[models.Inquiry], error) {
	q := dbWith(ctx, s.db).Model(&models.Inquiry{})
	if filter.Type != "" {
		q = q.Where("inquiries.type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("inquiries.status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		q = q.Joins("LEFT JOIN users ON users.id = inquiries.user_id").
			Where(`LOWER(users.name) LIKE ? ESCAPE '\' OR LOWER(users.email) LIKE ? ESCAPE '\' OR LOWER(inquiries.title) LIKE ? ESCAPE '\'`,
				pattern, pattern, pattern)
	}
	q = applyDateRange(q, "inquiries.created_at", filter.Dates)
	return pageInquiries(q, page, true)
}

func (s *AdminInquiryService) Get(ctx context.Context, id uint) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	q := dbWith(ctx, s.db).Preload("User").Preload("Images", imagesInOrder)
	if err := first(q, &inquiry, id, "inquiry"); err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// Answer records the reply and closes the inquiry to customer edits.
func (s *AdminInquiryService) Answer(ctx context.Context, id uint, in AnswerInquiryInput) (*models.Inquiry, error) {
	db := dbWith(ctx, s.db)
	var inquiry models.Inquiry
	if err := first(db, &inquiry, id, "inquiry"); err != nil {
		return nil, err
	}
	answer := strings.TrimSpace(in.Answer)
	err := db.Model(&inquiry).Updates(map[string]interface{}{
		"answer":      answer,
		"status":      models.InquiryStatusAnswered,
		"answered_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	log.Printf("[ADMIN] [INFO] inquiry %d answered", id)
	return s.Get(ctx, id)
}

func (s *AdminInquiryService) Delete(ctx context.Context, id uint) error {
	return dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		return deleteInquiry(tx, id, false)
	})
}
