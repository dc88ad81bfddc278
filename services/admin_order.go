package services

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/models"
	"github.com/judyrop/storefront/payment"
)

const DefaultAdminOrderLimit = 20

type AdminOrderFilter struct {
	Status models.OrderStatus
	Search string
	Dates  DateRange
}

type UpdateOrderStatusInput struct {
	Status         string  `json:"status" binding:"required"`
	TrackingNumber *string `json:"trackingNumber"`
	Carrier        *string `json:"carrier"`
	// Force skips the transition table so a mistaken status can be
	// corrected. Only PAID to CANCELED refunds through the gateway.
	Force bool `json:"force"`
}

type AdminOrderService struct {
	db      *gorm.DB
	gateway payment.Gateway
}

func NewAdminOrderService(db *gorm.DB, gateway payment.Gateway) *AdminOrderService {
	return &AdminOrderService{db: db, gateway: gateway}
}

func (s *AdminOrderService) filtered(ctx context.Context, filter AdminOrderFilter) *gorm.DB {
	q := dbWith(ctx, s.db).Model(&models.Order{})
	if filter.Status != "" {
		q = q.Where("orders.status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		q = q.Joins("LEFT JOIN users ON users.id = orders.user_id").
			Where(`LOWER(users.name) LIKE ? ESCAPE '\' OR LOWER(users.email) LIKE ? ESCAPE '\' OR LOWER(orders.recipient_name) LIKE ? ESCAPE '\'`,
				pattern, pattern, pattern)
	}
	return applyDateRange(q, "orders.created_at", filter.Dates)
}

func (s *AdminOrderService) List(ctx context.Context, filter AdminOrderFilter, page Page) (*List[models.Order], error) {
	q := s.filtered(ctx, filter).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var orders []models.Order
	err := q.Preload("User").Preload("Payment").Preload("Items").
		Order("orders.created_at DESC").Order("orders.id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return newList(orders, total, page), nil
}

func (s *AdminOrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	db := dbWith(ctx, s.db)
	order, err := loadOrder(db.Preload("User"), id)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order along the transition table, or to any status
// when in.Force is set. Re-sending the current status only edits tracking
// details. PAID to CANCELED refunds.
func (s *AdminOrderService) UpdateStatus(ctx context.Context, id uint, in UpdateOrderStatusInput) (*models.Order, error) {
	next, err := models.ParseOrderStatus(in.Status)
	if err != nil {
		return nil, apperr.BadRequest("%s", err.Error())
	}

	db := dbWith(ctx, s.db)
	var order models.Order
	if err := first(db.Preload("Payment"), &order, id, "order"); err != nil {
		return nil, err
	}

	allowed := order.Status.CanTransitionTo(next)
	if next != order.Status && !allowed && !in.Force {
		return nil, apperr.BadRequest("order %d cannot move from %s to %s", order.ID, order.Status, next)
	}

	if next == models.OrderStatusCanceled && allowed {
		if err := cancelOrder(ctx, db, s.gateway, &order, "canceled by store"); err != nil {
			return nil, err
		}
		if err := s.saveTracking(db, order.ID, in); err != nil {
			return nil, err
		}
		log.Printf("[ADMIN] [INFO] order %d canceled from %s", order.ID, order.Status)
		return loadOrder(db.Preload("User"), order.ID)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := trackingColumns(in)
		updates["status"] = next
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.BadRequest("order %d was modified concurrently", order.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	switch {
	case next != order.Status && !allowed:
		log.Printf("[ADMIN] [WARN] order %d forced from %s to %s", order.ID, order.Status, next)
	case next != order.Status:
		log.Printf("[ADMIN] [INFO] order %d moved from %s to %s", order.ID, order.Status, next)
	}
	return loadOrder(db.Preload("User"), order.ID)
}

func trackingColumns(in UpdateOrderStatusInput) map[string]interface{} {
	updates := map[string]interface{}{}
	if in.TrackingNumber != nil {
		updates["tracking_number"] = strings.TrimSpace(*in.TrackingNumber)
	}
	if in.Carrier != nil {
		updates["carrier"] = strings.TrimSpace(*in.Carrier)
	}
	return updates
}

func (s *AdminOrderService) saveTracking(db *gorm.DB, id uint, in UpdateOrderStatusInput) error {
	updates := trackingColumns(in)
	if len(updates) == 0 {
		return nil
	}
	return db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

var orderExportHeaders = []string{
	"Order ID", "Status", "Customer", "Email", "Recipient", "Phone", "Zip Code",
	"Address", "Items", "Total Price", "Payment Method", "Payment Status",
	"Tracking Number", "Carrier", "Created At",
}

// Export writes every order matching filter into a single-sheet workbook.
func (s *AdminOrderService) Export(ctx context.Context, filter AdminOrderFilter) (*xlsx.File, error) {
	var orders []models.Order
	err := s.filtered(ctx, filter).
		Preload("User").Preload("Payment").Preload("Items").
		Order("orders.created_at DESC").Order("orders.id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}
	header := sheet.AddRow()
	for _, h := range orderExportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(int64(o.ID))
		row.AddCell().SetValue(string(o.Status))

		var name, email string
		if o.User != nil {
			name, email = o.User.Name, o.User.Email
		}
		row.AddCell().SetValue(name)
		row.AddCell().SetValue(email)
		row.AddCell().SetValue(o.RecipientName)
		row.AddCell().SetValue(o.RecipientPhone)
		row.AddCell().SetValue(o.ZipCode)
		row.AddCell().SetValue(strings.TrimSpace(o.Address1 + " " + o.Address2))

		lines := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			lines = append(lines, item.ProductName+" x"+strconv.Itoa(item.Quantity))
		}
		row.AddCell().SetValue(strings.Join(lines, ", "))
		row.AddCell().SetValue(o.TotalPrice)

		var method, paid string
		if o.Payment != nil {
			method, paid = o.Payment.Method, string(o.Payment.Status)
		}
		row.AddCell().SetValue(method)
		row.AddCell().SetValue(paid)
		row.AddCell().SetValue(deref(o.TrackingNumber))
		row.AddCell().SetValue(deref(o.Carrier))
		row.AddCell().SetValue(o.CreatedAt.UTC().Format(time.DateTime))
	}
	log.Printf("[ADMIN] [INFO] exported %d orders", len(orders))
	return file, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
