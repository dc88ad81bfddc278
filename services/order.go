package services

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/models"
	"github.com/judyrop/storefront/notify"
	"github.com/judyrop/storefront/payment"
)

type OrderItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=999"`
}

type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	RecipientName   string           `json:"recipientName" binding:"required"`
	RecipientPhone  string           `json:"recipientPhone" binding:"required"`
	ZipCode         string           `json:"zipCode" binding:"required"`
	Address1        string           `json:"address1" binding:"required"`
	Address2        string           `json:"address2"`
	GatePassword    string           `json:"gatePassword"`
	DeliveryRequest string           `json:"deliveryRequest"`
	FromCart        bool             `json:"fromCart"`
}

type ConfirmOrderInput struct {
	OrderID    uint   `json:"orderId" binding:"required"`
	PaymentKey string `json:"paymentKey" binding:"required"`
	Amount     int64  `json:"amount" binding:"gte=0"`
}

type CancelOrderInput struct {
	Reason string `json:"reason"`
}

type ReturnOrderInput struct {
	Reason string `json:"reason" binding:"required"`
}

const (
	minReturnReasonLength = 5
	maxLineQuantity       = 999
)

// lineTotal multiplies price by quantity and adds it to total, reporting
// false when either step would overflow int64.
func lineTotal(total, price int64, quantity int) (int64, bool) {
	if price < 0 || quantity < 0 || total < 0 {
		return 0, false
	}
	q := int64(quantity)
	if price != 0 && q > math.MaxInt64/price {
		return 0, false
	}
	sub := price * q
	if total > math.MaxInt64-sub {
		return 0, false
	}
	return total + sub, true
}

type OrderService struct {
	db       *gorm.DB
	gateway  payment.Gateway
	notifier notify.Notifier
}

func NewOrderService(db *gorm.DB, gateway payment.Gateway, notifier notify.Notifier) *OrderService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &OrderService{db: db, gateway: gateway, notifier: notifier}
}

// Create prices every line from the current catalogue and stores the
// order as PENDING. Nothing is written when a product is missing.
func (s *OrderService) Create(ctx context.Context, userID uint, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.BadRequest("at least one item is required")
	}

	order := models.Order{
		UserID:          userID,
		Status:          models.OrderStatusPending,
		RecipientName:   in.RecipientName,
		RecipientPhone:  in.RecipientPhone,
		ZipCode:         in.ZipCode,
		Address1:        in.Address1,
		Address2:        in.Address2,
		GatePassword:    in.GatePassword,
		DeliveryRequest: in.DeliveryRequest,
	}

	err := dbWith(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		productIDs := make([]uint, 0, len(in.Items))
		for _, line := range in.Items {
			if line.Quantity < 1 || line.Quantity > maxLineQuantity {
				return apperr.BadRequest("quantity for product %d must be between 1 and %d", line.ProductID, maxLineQuantity)
			}
			var product models.Product
			if err := first(tx, &product, line.ProductID, "product"); err != nil {
				return err
			}
			item := models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Price:       product.Price,
			}
			total, ok := lineTotal(order.TotalPrice, item.Price, item.Quantity)
			if !ok {
				return apperr.BadRequest("order total is too large")
			}
			order.Items = append(order.Items, item)
			order.TotalPrice = total
			productIDs = append(productIDs, product.ID)
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if in.FromCart {
			var cart models.Cart
			err := tx.Where("user_id = ?", userID).First(&cart).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			return tx.Where("cart_id = ? AND product_id IN ?", cart.ID, productIDs).Delete(&models.CartItem{}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[ORDER] [INFO] order %d created for user %d, total %d", order.ID, userID, order.TotalPrice)
	return &order, nil
}

// Confirm asks the gateway to approve the payment and then marks the order
// PAID. The status guard is checked again inside the writing transaction.
func (s *OrderService) Confirm(ctx context.Context, userID uint, in ConfirmOrderInput) (*models.Order, error) {
	db := dbWith(ctx, s.db)

	var order models.Order
	if err := first(db, &order, in.OrderID, "order"); err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperr.Forbidden("order %d belongs to another user", order.ID)
	}
	if order.TotalPrice != in.Amount {
		return nil, apperr.BadRequest("payment amount does not match the order total")
	}
	if order.Status != models.OrderStatusPending {
		return nil, apperr.BadRequest("order %d is already processed", order.ID)
	}

	confirmation, err := s.gateway.Confirm(ctx, payment.ConfirmRequest{
		PaymentKey: in.PaymentKey,
		OrderID:    strconv.FormatUint(uint64(order.ID), 10),
		Amount:     in.Amount,
	})
	if err != nil {
		log.Printf("[ORDER] [ERROR] payment confirm for order %d failed: %v", order.ID, err)
		message := payment.Message(err)
		if message == "" {
			message = "payment confirmation failed"
		}
		return nil, apperr.Wrap(http.StatusBadRequest, err, message)
	}

	approvedAt := confirmation.ApprovedAt
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
			Update("status", models.OrderStatusPaid)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.BadRequest("order %d is already processed", order.ID)
		}
		return tx.Create(&models.Payment{
			OrderID:    order.ID,
			PaymentKey: in.PaymentKey,
			Method:     confirmation.Method,
			Amount:     in.Amount,
			Status:     models.PaymentStatusPaid,
			ApprovedAt: &approvedAt,
		}).Error
	})
	if err != nil {
		s.releasePayment(ctx, order.ID, in.PaymentKey)
		return nil, err
	}
	log.Printf("[ORDER] [INFO] order %d paid", order.ID)

	s.notifyPaid(ctx, order)
	return loadOrder(db, order.ID)
}

// releasePayment refunds a payment the gateway approved but the store could not record.
func (s *OrderService) releasePayment(ctx context.Context, orderID uint, paymentKey string) {
	if err := s.gateway.Cancel(context.WithoutCancel(ctx), paymentKey, "order could not be recorded"); err != nil {
		log.Printf("[ORDER] [ERROR] compensating cancel for order %d failed, payment %s needs manual refund: %v", orderID, paymentKey, err)
		return
	}
	log.Printf("[ORDER] [WARN] payment for order %d was refunded after a failed local write", orderID)
}

func (s *OrderService) notifyPaid(ctx context.Context, order models.Order) {
	if order.RecipientPhone == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	message := notify.PaymentConfirmed(order.RecipientName, order.ID, order.TotalPrice)
	if err := s.notifier.SendSMS(ctx, order.RecipientPhone, message); err != nil {
		log.Printf("[ORDER] [WARN] payment notice for order %d not sent: %v", order.ID, err)
	}
}

func (s *OrderService) Cancel(ctx context.Context, userID, orderID uint, in CancelOrderInput) (*models.Order, error) {
	db := dbWith(ctx, s.db)

	order, err := ownedOrder(db, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Shipped() {
		return nil, apperr.BadRequest("order %d has already shipped and cannot be canceled", order.ID)
	}
	if order.Status == models.OrderStatusCanceled {
		return nil, apperr.BadRequest("order %d is already canceled", order.ID)
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "canceled by customer"
	}
	if err := cancelOrder(ctx, db, s.gateway, order, reason); err != nil {
		return nil, err
	}
	return loadOrder(db, order.ID)
}

// cancelOrder refunds a paid order through the gateway before any local
// write, so a failed refund leaves the order PAID.
func cancelOrder(ctx context.Context, db *gorm.DB, gateway payment.Gateway, order *models.Order, reason string) error {
	if !order.Status.CanTransitionTo(models.OrderStatusCanceled) {
		return apperr.BadRequest("order %d cannot be canceled from %s", order.ID, order.Status)
	}

	refund := order.Status == models.OrderStatusPaid && order.Payment != nil &&
		order.Payment.Status == models.PaymentStatusPaid
	if refund {
		if err := gateway.Cancel(ctx, order.Payment.PaymentKey, reason); err != nil {
			log.Printf("[ORDER] [ERROR] refund for order %d failed: %v", order.ID, err)
			return apperr.Internal(err, "payment cancellation failed")
		}
	}

	now := time.Now()
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Update("status", models.OrderStatusCanceled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if refund {
				log.Printf("[ORDER] [ERROR] order %d changed after its payment was refunded", order.ID)
			}
			return apperr.BadRequest("order %d was modified concurrently", order.ID)
		}
		if order.Payment == nil {
			return nil
		}
		return tx.Model(&models.Payment{}).Where("id = ?", order.Payment.ID).
			Updates(map[string]interface{}{"status": models.PaymentStatusCanceled, "canceled_at": now}).Error
	})
}

func (s *OrderService) RequestReturn(ctx context.Context, userID, orderID uint, in ReturnOrderInput) (*models.Order, error) {
	db := dbWith(ctx, s.db)
	reason := strings.TrimSpace(in.Reason)

	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("order %d not found", orderID)
		}
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusDelivered {
			return apperr.BadRequest("only delivered orders can be returned")
		}
		if utf8.RuneCountInString(reason) < minReturnReasonLength {
			return apperr.BadRequest("return reason must be at least %d characters", minReturnReasonLength)
		}
		return tx.Model(&order).Updates(map[string]interface{}{
			"status":        models.OrderStatusReturnRequested,
			"return_reason": reason,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return loadOrder(db, orderID)
}

// ListMine pages the caller's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, userID uint, page Page) (*List[models.Order], error) {
	q := dbWith(ctx, s.db).Model(&models.Order{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var orders []models.Order
	err := q.Preload("Items").Preload("Payment").
		Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return newList(orders, total, page), nil
}

func (s *OrderService) Detail(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	db := dbWith(ctx, s.db)
	if _, err := ownedOrder(db, userID, orderID); err != nil {
		return nil, err
	}
	return loadOrder(db, orderID)
}

// ownedOrder reports another user's order as missing.
func ownedOrder(db *gorm.DB, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Payment").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order %d not found", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func loadOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	q := db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Preload("Items.Product.Images", imagesInOrder).
		Preload("Payment")
	if err := first(q, &order, orderID, "order"); err != nil {
		return nil, err
	}
	return &order, nil
}
