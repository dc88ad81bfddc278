package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/models"
)

type BookmarkService struct {
	db *gorm.DB
}

func NewBookmarkService(db *gorm.DB) *BookmarkService {
	return &BookmarkService{db: db}
}

func (s *BookmarkService) Add(ctx context.Context, userID, productID uint) (*models.Bookmark, error) {
	bookmark := models.Bookmark{UserID: userID, ProductID: productID}
	err := dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Product{}, productID, "product"); err != nil {
			return err
		}
		dup, err := exists(tx, &models.Bookmark{}, "user_id = ? AND product_id = ?", userID, productID)
		if err != nil {
			return err
		}
		if dup {
			return apperr.Conflict("product %d is already bookmarked", productID)
		}
		return duplicateAs(tx.Create(&bookmark).Error,
			apperr.Conflict("product %d is already bookmarked", productID))
	})
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

func (s *BookmarkService) Remove(ctx context.Context, userID, productID uint) error {
	res := dbWith(ctx, s.db).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("bookmark for product %d not found", productID)
	}
	return nil
}

// List returns the caller's bookmarks, most recent first.
func (s *BookmarkService) List(ctx context.Context, userID uint, page Page) (*List[models.Bookmark], error) {
	q := dbWith(ctx, s.db).Model(&models.Bookmark{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var bookmarks []models.Bookmark
	err := q.Preload("Product").Preload("Product.Images", imagesInOrder).
		Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}
	for i := range bookmarks {
		if p := bookmarks[i].Product; p != nil && len(p.Images) > 1 {
			p.Images = p.Images[:1]
		}
	}
	return newList(bookmarks, total, page), nil
}
