package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/models"
)

type AdminReviewFilter struct {
	Search    string
	ProductID uint
	UserID    uint
	Dates     DateRange
}

type AdminReviewService struct {
	db *gorm.DB
}

func NewAdminReviewService(db *gorm.DB) *AdminReviewService {
	return &AdminReviewService{db: db}
}

func (s *AdminReviewService) List(ctx context.Context, filter AdminReviewFilter, page Page) (*List[models.Review], error) {
	q := dbWith(ctx, s.db).Model(&models.Review{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		q = q.Joins("LEFT JOIN users ON users.id = reviews.user_id").
			Where(`LOWER(reviews.content) LIKE ? ESCAPE '\' OR LOWER(users.name) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	if filter.ProductID != 0 {
		q = q.Where("reviews.product_id = ?", filter.ProductID)
	}
	if filter.UserID != 0 {
		q = q.Where("reviews.user_id = ?", filter.UserID)
	}
	q = applyDateRange(q, "reviews.created_at", filter.Dates).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var reviews []models.Review
	err := q.Preload("User").Preload("Product").Preload("Images", imagesInOrder).
		Order("reviews.created_at DESC").Order("reviews.id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].FillAuthor()
	}
	return newList(reviews, total, page), nil
}

func (s *AdminReviewService) Delete(ctx context.Context, id uint) error {
	return dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		return deleteReview(tx, id)
	})
}
