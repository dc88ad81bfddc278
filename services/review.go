package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/models"
)

type ReviewSort string

const (
	ReviewSortLatest     ReviewSort = "latest"
	ReviewSortRatingDesc ReviewSort = "rating_desc"
	ReviewSortRatingAsc  ReviewSort = "rating_asc"
)

func ParseReviewSort(s string) (ReviewSort, error) {
	switch sort := ReviewSort(strings.TrimSpace(s)); sort {
	case "":
		return ReviewSortLatest, nil
	case ReviewSortLatest, ReviewSortRatingDesc, ReviewSortRatingAsc:
		return sort, nil
	}
	return "", fmt.Errorf("invalid sort %q", s)
}

func applyReviewSort(q *gorm.DB, sort ReviewSort) *gorm.DB {
	switch sort {
	case ReviewSortRatingDesc:
		return q.Order("rating DESC").Order("created_at DESC").Order("id DESC")
	case ReviewSortRatingAsc:
		return q.Order("rating ASC").Order("created_at DESC").Order("id DESC")
	default:
		return q.Order("created_at DESC").Order("id DESC")
	}
}

type CreateReviewInput struct {
	ProductID uint     `json:"productId" binding:"required"`
	Rating    int      `json:"rating" binding:"required,min=1,max=5"`
	Content   string   `json:"content" binding:"required,min=10"`
	ImageURLs []string `json:"imageUrls" binding:"omitempty,dive,url"`
}

// UpdateReviewInput leaves nil fields untouched; a non-nil ImageURLs
// replaces every image.
type UpdateReviewInput struct {
	Rating    *int      `json:"rating" binding:"omitempty,min=1,max=5"`
	Content   *string   `json:"content" binding:"omitempty,min=10"`
	ImageURLs *[]string `json:"imageUrls" binding:"omitempty,dive,url"`
}

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Create accepts one review per user and product, and only from a user
// with a delivered order containing the product.
func (s *ReviewService) Create(ctx context.Context, userID uint, in CreateReviewInput) (*models.Review, error) {
	review := models.Review{
		UserID:    userID,
		ProductID: in.ProductID,
		Rating:    in.Rating,
		Content:   in.Content,
	}

	err := dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		dup, err := exists(tx, &models.Review{}, "user_id = ? AND product_id = ?", userID, in.ProductID)
		if err != nil {
			return err
		}
		if dup {
			return apperr.Conflict("you have already reviewed product %d", in.ProductID)
		}

		var delivered int64
		err = tx.Model(&models.Order{}).
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
				userID, models.OrderStatusDelivered, in.ProductID).
			Count(&delivered).Error
		if err != nil {
			return err
		}
		if delivered == 0 {
			return apperr.Forbidden("only delivered purchases can be reviewed")
		}

		err = tx.Omit("Images").Create(&review).Error
		if err := duplicateAs(err, apperr.Conflict("you have already reviewed product %d", in.ProductID)); err != nil {
			return err
		}
		review.Images = models.ReviewImagesFromURLs(review.ID, in.ImageURLs)
		if len(review.Images) == 0 {
			return nil
		}
		return tx.Create(&review.Images).Error
	})
	if err != nil {
		return nil, err
	}
	if review.Images == nil {
		review.Images = []models.ReviewImage{}
	}
	return &review, nil
}

// ListByProduct is public; authors are shown by name only.
func (s *ReviewService) ListByProduct(ctx context.Context, productID uint, sort ReviewSort, page Page) (*List[models.Review], error) {
	q := dbWith(ctx, s.db).Model(&models.Review{}).Where("product_id = ?", productID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var reviews []models.Review
	err := applyReviewSort(q, sort).
		Preload("User").Preload("Images", imagesInOrder).
		Offset(page.Offset()).Limit(page.Limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].FillAuthor()
		if reviews[i].Author != nil {
			reviews[i].Author.Email = ""
		}
	}
	return newList(reviews, total, page), nil
}

func (s *ReviewService) ListMine(ctx context.Context, userID uint, sort ReviewSort, page Page) (*List[models.Review], error) {
	q := dbWith(ctx, s.db).Model(&models.Review{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var reviews []models.Review
	err := applyReviewSort(q, sort).
		Preload("Product").Preload("Product.Images", imagesInOrder).
		Preload("Images", imagesInOrder).
		Offset(page.Offset()).Limit(page.Limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if p := reviews[i].Product; p != nil && len(p.Images) > 1 {
			p.Images = p.Images[:1]
		}
	}
	return newList(reviews, total, page), nil
}

func ownedReview(db *gorm.DB, userID, reviewID uint) (*models.Review, error) {
	var review models.Review
	if err := first(db, &review, reviewID, "review"); err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, apperr.Forbidden("review %d belongs to another user", reviewID)
	}
	return &review, nil
}

func (s *ReviewService) Update(ctx context.Context, userID, reviewID uint, in UpdateReviewInput) (*models.Review, error) {
	db := dbWith(ctx, s.db)
	err := db.Transaction(func(tx *gorm.DB) error {
		review, err := ownedReview(tx, userID, reviewID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Rating != nil {
			updates["rating"] = *in.Rating
		}
		if in.Content != nil {
			updates["content"] = *in.Content
		}
		if len(updates) > 0 {
			if err := tx.Model(review).Updates(updates).Error; err != nil {
				return err
			}
		}

		if in.ImageURLs != nil {
			if err := tx.Where("review_id = ?", reviewID).Delete(&models.ReviewImage{}).Error; err != nil {
				return err
			}
			if images := models.ReviewImagesFromURLs(reviewID, *in.ImageURLs); len(images) > 0 {
				return tx.Create(&images).Error
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var review models.Review
	if err := first(db.Preload("Images", imagesInOrder), &review, reviewID, "review"); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uint) error {
	return dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedReview(tx, userID, reviewID); err != nil {
			return err
		}
		return deleteReview(tx, reviewID)
	})
}

func deleteReview(tx *gorm.DB, reviewID uint) error {
	if err := tx.Where("review_id = ?", reviewID).Delete(&models.ReviewImage{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&models.Review{}, reviewID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("review %d not found", reviewID)
	}
	return nil
}
