package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/models"
)

type CreateCategoryInput struct {
	Name     string `json:"name" binding:"required,max=100"`
	Path     string `json:"path" binding:"required,max=100"`
	ParentID *uint  `json:"parentId"`
}

// UpdateCategoryInput changes only the fields that are present. Set
// DetachParent to move the category to the root.
type UpdateCategoryInput struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Path         *string `json:"path" binding:"omitempty,min=1,max=100"`
	ParentID     *uint   `json:"parentId"`
	DetachParent bool    `json:"detachParent"`
}

type CategoryStats struct {
	CategoryID   uint    `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	ProductCount int64   `json:"productCount"`
	AveragePrice float64 `json:"averagePrice"`
}

type AdminCategoryService struct {
	db *gorm.DB
}

func NewAdminCategoryService(db *gorm.DB) *AdminCategoryService {
	return &AdminCategoryService{db: db}
}

func (s *AdminCategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	category := models.Category{
		Name:     strings.TrimSpace(in.Name),
		Path:     strings.TrimSpace(in.Path),
		ParentID: in.ParentID,
	}
	err := dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.Category{}, "path = ?", category.Path)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("category path %q already exists", category.Path)
		}
		if in.ParentID != nil {
			if err := first(tx, &models.Category{}, *in.ParentID, "parent category"); err != nil {
				return err
			}
		}
		return duplicateAs(tx.Create(&category).Error,
			apperr.Conflict("category path %q already exists", category.Path))
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *AdminCategoryService) Update(ctx context.Context, id uint, in UpdateCategoryInput) (*models.Category, error) {
	var category models.Category
	err := dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &category, id, "category"); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = strings.TrimSpace(*in.Name)
		}
		if in.Path != nil {
			path := strings.TrimSpace(*in.Path)
			if path != category.Path {
				taken, err := exists(tx, &models.Category{}, "path = ? AND id <> ?", path, id)
				if err != nil {
					return err
				}
				if taken {
					return apperr.Conflict("category path %q already exists", path)
				}
			}
			updates["path"] = path
		}
		switch {
		case in.DetachParent:
			updates["parent_id"] = nil
		case in.ParentID != nil:
			if err := checkNewParent(tx, id, *in.ParentID); err != nil {
				return err
			}
			updates["parent_id"] = *in.ParentID
		}

		if len(updates) == 0 {
			return nil
		}
		err := tx.Model(&category).Updates(updates).Error
		if err := duplicateAs(err, apperr.Conflict("category path %q already exists", updates["path"])); err != nil {
			return err
		}
		return tx.First(&category, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// checkNewParent rejects a parent that is the category itself or lies below
// it. The walk climbs from the new parent to its root with no depth limit.
func checkNewParent(tx *gorm.DB, id, parentID uint) error {
	if parentID == id {
		return apperr.BadRequest("a category cannot be its own parent")
	}
	if err := first(tx, &models.Category{}, parentID, "parent category"); err != nil {
		return err
	}
	seen := map[uint]bool{}
	for current := &parentID; current != nil && !seen[*current]; {
		if *current == id {
			return apperr.BadRequest("category %d cannot be moved under its own descendant %d", id, parentID)
		}
		seen[*current] = true
		var c models.Category
		err := tx.Select("id", "parent_id").First(&c, *current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		current = c.ParentID
	}
	return nil
}

func (s *AdminCategoryService) Delete(ctx context.Context, id uint) error {
	return dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Category{}, id, "category"); err != nil {
			return err
		}
		hasChildren, err := exists(tx, &models.Category{}, "parent_id = ?", id)
		if err != nil {
			return err
		}
		if hasChildren {
			return apperr.BadRequest("category %d still has subcategories", id)
		}
		hasProducts, err := exists(tx, &models.Product{}, "category_id = ?", id)
		if err != nil {
			return err
		}
		if hasProducts {
			return apperr.BadRequest("category %d still has products; move or delete them first", id)
		}
		return tx.Delete(&models.Category{}, id).Error
	})
}

// Stats counts the products of the category subtree and averages their price.
func (s *AdminCategoryService) Stats(ctx context.Context, id uint) (*CategoryStats, error) {
	db := dbWith(ctx, s.db)
	var category models.Category
	if err := first(db, &category, id, "category"); err != nil {
		return nil, err
	}
	ids, err := descendantCategoryIDs(db, category.ID)
	if err != nil {
		return nil, err
	}

	var row struct {
		Count int64
		Sum   int64
	}
	err = db.Model(&models.Product{}).
		Select("COUNT(*) AS count, COALESCE(SUM(price), 0) AS sum").
		Where("category_id IN ?", ids).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &CategoryStats{CategoryID: category.ID, CategoryName: category.Name, ProductCount: row.Count}
	if row.Count > 0 {
		stats.AveragePrice = float64(row.Sum) / float64(row.Count)
	}
	return stats, nil
}
