package services

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/models"
)

type CreateProductInput struct {
	Name          string   `json:"name" binding:"required,max=200"`
	Price         int64    `json:"price" binding:"gte=0"`
	Material      string   `json:"material" binding:"required"`
	Summary       string   `json:"summary" binding:"required"`
	Collection    string   `json:"collection" binding:"required"`
	Lens          string   `json:"lens" binding:"required"`
	OriginCountry string   `json:"originCountry" binding:"required"`
	Shape         string   `json:"shape" binding:"required"`
	SizeInfo      string   `json:"sizeInfo" binding:"required"`
	CategoryID    uint     `json:"categoryId" binding:"required"`
	ImageURLs     []string `json:"imageUrls" binding:"required,min=1,dive,url"`
}

type UpdateProductInput struct {
	Name          *string   `json:"name" binding:"omitempty,min=1,max=200"`
	Price         *int64    `json:"price" binding:"omitempty,gte=0"`
	Material      *string   `json:"material"`
	Summary       *string   `json:"summary"`
	Collection    *string   `json:"collection"`
	Lens          *string   `json:"lens"`
	OriginCountry *string   `json:"originCountry"`
	Shape         *string   `json:"shape"`
	SizeInfo      *string   `json:"sizeInfo"`
	CategoryID    *uint     `json:"categoryId"`
	ImageURLs     *[]string `json:"imageUrls" binding:"omitempty,min=1,dive,url"`
}

func (in UpdateProductInput) columns() map[string]interface{} {
	updates := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("name", in.Name)
	set("material", in.Material)
	set("summary", in.Summary)
	set("collection", in.Collection)
	set("lens", in.Lens)
	set("origin_country", in.OriginCountry)
	set("shape", in.Shape)
	set("size_info", in.SizeInfo)
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.CategoryID != nil {
		updates["category_id"] = *in.CategoryID
	}
	return updates
}

type AdminProductService struct {
	db *gorm.DB
}

func NewAdminProductService(db *gorm.DB) *AdminProductService {
	return &AdminProductService{db: db}
}

func (s *AdminProductService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if len(in.ImageURLs) == 0 {
		return nil, apperr.BadRequest("at least one image is required")
	}
	if in.Price < 0 {
		return nil, apperr.BadRequest("price must not be negative")
	}
	product := models.Product{
		Name:          in.Name,
		Price:         in.Price,
		Material:      in.Material,
		Summary:       in.Summary,
		Collection:    in.Collection,
		Lens:          in.Lens,
		OriginCountry: in.OriginCountry,
		Shape:         in.Shape,
		SizeInfo:      in.SizeInfo,
		CategoryID:    in.CategoryID,
		Images:        models.ProductImagesFromURLs(in.ImageURLs),
	}
	err := dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Category{}, in.CategoryID, "category"); err != nil {
			return err
		}
		return tx.Create(&product).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[PRODUCT] [INFO] product %d created in category %d", product.ID, product.CategoryID)
	return &product, nil
}

func (s *AdminProductService) Update(ctx context.Context, id uint, in UpdateProductInput) (*models.Product, error) {
	db := dbWith(ctx, s.db)
	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := first(tx, &product, id, "product"); err != nil {
			return err
		}
		if in.CategoryID != nil {
			if err := first(tx, &models.Category{}, *in.CategoryID, "category"); err != nil {
				return err
			}
		}

		if updates := in.columns(); len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return err
			}
		}

		if in.ImageURLs != nil {
			if len(*in.ImageURLs) == 0 {
				return apperr.BadRequest("at least one image is required")
			}
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			images := models.ProductImagesFromURLs(*in.ImageURLs)
			for i := range images {
				images[i].ProductID = id
			}
			return tx.Create(&images).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := first(db.Preload("Images", imagesInOrder), &product, id, "product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes the product with its images, cart lines and bookmarks.
// Order items keep their snapshot.
func (s *AdminProductService) Delete(ctx context.Context, id uint) error {
	return dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Product{}, id, "product"); err != nil {
			return err
		}
		for _, child := range []interface{}{&models.ProductImage{}, &models.CartItem{}, &models.Bookmark{}} {
			if err := tx.Where("product_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}
