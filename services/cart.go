package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/models"
)

type AddCartItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"omitempty,min=1,max=999"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=999"`
}

type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

func cartOf(db *gorm.DB, userID uint) (*models.Cart, error) {
	cart := models.Cart{UserID: userID}
	if err := db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// Get returns the caller's cart, creating an empty one on first use.
func (s *CartService) Get(ctx context.Context, userID uint) (*models.Cart, error) {
	db := dbWith(ctx, s.db)
	cart, err := cartOf(db, userID)
	if err != nil {
		return nil, err
	}
	err = db.Preload("Product").Preload("Product.Images", imagesInOrder).
		Where("cart_id = ?", cart.ID).Order("id ASC").
		Find(&cart.Items).Error
	if err != nil {
		return nil, err
	}
	for i := range cart.Items {
		if p := cart.Items[i].Product; p != nil && len(p.Images) > 1 {
			p.Images = p.Images[:1]
		}
	}
	return cart, nil
}

// AddItem adds quantity to an existing line for the product or opens a new one.
func (s *CartService) AddItem(ctx context.Context, userID uint, in AddCartItemInput) (*models.CartItem, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 || in.Quantity > maxLineQuantity {
		return nil, apperr.BadRequest("quantity must be between 1 and %d", maxLineQuantity)
	}

	item, err := s.addItem(ctx, userID, in)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent add opened the cart or the line first; merge into it
		item, err = s.addItem(ctx, userID, in)
	}
	if err != nil {
		return nil, duplicateAs(err, apperr.Conflict("cart was modified concurrently"))
	}
	return item, nil
}

func (s *CartService) addItem(ctx context.Context, userID uint, in AddCartItemInput) (*models.CartItem, error) {
	var item models.CartItem
	err := dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &models.Product{}, in.ProductID, "product"); err != nil {
			return err
		}
		cart, err := cartOf(tx, userID)
		if err != nil {
			return err
		}

		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, in.ProductID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = models.CartItem{CartID: cart.ID, ProductID: in.ProductID, Quantity: in.Quantity}
			return tx.Create(&item).Error
		}
		if err != nil {
			return err
		}
		if item.Quantity+in.Quantity > maxLineQuantity {
			return apperr.BadRequest("cart holds at most %d of product %d", maxLineQuantity, in.ProductID)
		}
		res := tx.Model(&item).Where("quantity + ? <= ?", in.Quantity, maxLineQuantity).
			Update("quantity", gorm.Expr("quantity + ?", in.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.BadRequest("cart holds at most %d of product %d", maxLineQuantity, in.ProductID)
		}
		item.Quantity += in.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ownedItem finds a line of the caller's cart; any other line is reported missing.
func ownedItem(db *gorm.DB, userID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("cart item %d not found", itemID)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, in UpdateCartItemInput) (*models.CartItem, error) {
	if in.Quantity < 1 || in.Quantity > maxLineQuantity {
		return nil, apperr.BadRequest("quantity must be between 1 and %d", maxLineQuantity)
	}
	db := dbWith(ctx, s.db)
	item, err := ownedItem(db, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(item).Update("quantity", in.Quantity).Error; err != nil {
		return nil, err
	}
	item.Quantity = in.Quantity
	return item, nil
}

func (s *CartService) DeleteItem(ctx context.Context, userID, itemID uint) error {
	db := dbWith(ctx, s.db)
	item, err := ownedItem(db, userID, itemID)
	if err != nil {
		return err
	}
	return db.Delete(&models.CartItem{}, item.ID).Error
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	db := dbWith(ctx, s.db)
	cart, err := cartOf(db, userID)
	if err != nil {
		return err
	}
	return db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}
