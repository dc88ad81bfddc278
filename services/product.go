package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/models"
)

const DefaultProductLimit = 20

type ProductSort string

const (
	SortLatest    ProductSort = "latest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
)

func ParseProductSort(s string) (ProductSort, error) {
	switch sort := ProductSort(strings.TrimSpace(s)); sort {
	case "":
		return SortLatest, nil
	case SortLatest, SortPriceAsc, SortPriceDesc:
		return sort, nil
	}
	return "", fmt.Errorf("invalid sort %q", s)
}

type ProductFilter struct {
	CategoryPath string
	Keyword      string
	Sort         ProductSort
}

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) List(ctx context.Context, filter ProductFilter, page Page) (*List[models.Product], error) {
	db := dbWith(ctx, s.db)
	q := db.Model(&models.Product{})

	if path := strings.TrimSpace(filter.CategoryPath); path != "" {
		var category models.Category
		err := db.Where("path = ?", path).First(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category %q not found", path)
		}
		if err != nil {
			return nil, err
		}
		ids, err := descendantCategoryIDs(db, category.ID)
		if err != nil {
			return nil, err
		}
		q = q.Where("category_id IN ?", ids)
	}

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := likePattern(keyword)
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(summary) LIKE ? ESCAPE '\' OR LOWER(material) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var products []models.Product
	err := applyProductSort(q, filter.Sort).
		Preload("Images", imagesInOrder).
		Offset(page.Offset()).Limit(page.Limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return newList(keepFirstImage(products), total, page), nil
}

func applyProductSort(q *gorm.DB, sort ProductSort) *gorm.DB {
	switch sort {
	case SortPriceAsc:
		return q.Order("price ASC").Order("id DESC")
	case SortPriceDesc:
		return q.Order("price DESC").Order("id DESC")
	default:
		return q.Order("created_at DESC").Order("id DESC")
	}
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	q := dbWith(ctx, s.db).
		Preload("Images", imagesInOrder).
		Preload("Category")
	if err := first(q, &product, id, "product"); err != nil {
		return nil, err
	}
	return &product, nil
}
