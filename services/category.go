package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/models"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// CategoryPage is the category landing page.
type CategoryPage struct {
	Category   models.Category          `json:"category"`
	Breadcrumb []models.CategorySummary `json:"breadcrumb"`
	Children   []models.CategorySummary `json:"children"`
	Products   *List[models.Product]    `json:"products"`
}

func (s *CategoryService) Tree(ctx context.Context) ([]*models.Category, error) {
	var categories []models.Category
	if err := dbWith(ctx, s.db).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return buildTree(categories), nil
}

func (s *CategoryService) ByPath(ctx context.Context, path string, page Page) (*CategoryPage, error) {
	db := dbWith(ctx, s.db)

	var category models.Category
	err := db.Where("path = ?", path).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("category %q not found", path)
	}
	if err != nil {
		return nil, err
	}

	chain, err := ancestors(db, category)
	if err != nil {
		return nil, err
	}
	breadcrumb := make([]models.CategorySummary, 0, len(chain))
	for _, c := range chain {
		breadcrumb = append(breadcrumb, c.Summary())
	}

	var children []models.Category
	if err := db.Where("parent_id = ?", category.ID).Order("id ASC").Find(&children).Error; err != nil {
		return nil, err
	}
	childSummaries := make([]models.CategorySummary, 0, len(children))
	for _, c := range children {
		childSummaries = append(childSummaries, c.Summary())
	}

	ids, err := descendantCategoryIDs(db, category.ID)
	if err != nil {
		return nil, err
	}
	products, err := productsInCategories(db, ids, page)
	if err != nil {
		return nil, err
	}

	return &CategoryPage{
		Category:   category,
		Breadcrumb: breadcrumb,
		Children:   childSummaries,
		Products:   products,
	}, nil
}

func productsInCategories(db *gorm.DB, ids []uint, page Page) (*List[models.Product], error) {
	q := db.Model(&models.Product{}).Where("category_id IN ?", ids).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var products []models.Product
	err := q.Preload("Images", imagesInOrder).
		Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return newList(keepFirstImage(products), total, page), nil
}

func keepFirstImage(products []models.Product) []models.Product {
	for i := range products {
		if len(products[i].Images) > 1 {
			products[i].Images = products[i].Images[:1]
		}
	}
	return products
}
