package models

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDING"
	OrderStatusPaid            OrderStatus = "PAID"
	OrderStatusShipped         OrderStatus = "SHIPPED"
	OrderStatusDelivered       OrderStatus = "DELIVERED"
	OrderStatusCanceled        OrderStatus = "CANCELED"
	OrderStatusReturnRequested OrderStatus = "RETURN_REQUESTED"
	OrderStatusReturnCompleted OrderStatus = "RETURN_COMPLETED"
)

// orderTransitions is the single source of truth for status changes.
// RETURN_REQUESTED -> DELIVERED covers a rejected return.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:         {OrderStatusPaid, OrderStatusCanceled},
	OrderStatusPaid:            {OrderStatusShipped, OrderStatusCanceled},
	OrderStatusShipped:         {OrderStatusDelivered},
	OrderStatusDelivered:       {OrderStatusReturnRequested},
	OrderStatusReturnRequested: {OrderStatusReturnCompleted, OrderStatusDelivered},
	OrderStatusCanceled:        nil,
	OrderStatusReturnCompleted: nil,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := orderTransitions[status]; !ok {
		return "", fmt.Errorf("invalid order status %q", s)
	}
	return status, nil
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// Shipped reports whether the parcel has left the warehouse.
func (s OrderStatus) Shipped() bool {
	switch s {
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusReturnRequested, OrderStatusReturnCompleted:
		return true
	}
	return false
}

// Order prices are snapshots taken at checkout. TotalPrice is never
// recomputed from live product prices.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"index;not null" json:"userId"`
	User            *User       `json:"user,omitempty"`
	TotalPrice      int64       `gorm:"not null" json:"totalPrice"`
	Status          OrderStatus `gorm:"size:20;not null;index" json:"status"`
	RecipientName   string      `gorm:"size:100;not null" json:"recipientName"`
	RecipientPhone  string      `gorm:"size:30;not null" json:"recipientPhone"`
	ZipCode         string      `gorm:"size:10;not null" json:"zipCode"`
	Address1        string      `gorm:"not null" json:"address1"`
	Address2        string      `json:"address2"`
	GatePassword    string      `json:"gatePassword,omitempty"`
	DeliveryRequest string      `json:"deliveryRequest,omitempty"`
	TrackingNumber  *string     `json:"trackingNumber"`
	Carrier         *string     `json:"carrier"`
	ReturnReason    *string     `json:"returnReason,omitempty"`
	Items           []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Payment         *Payment    `gorm:"constraint:OnDelete:CASCADE" json:"payment"`
	CreatedAt       time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type OrderItem struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	OrderID     uint     `gorm:"index;not null" json:"orderId"`
	ProductID   uint     `gorm:"index;not null" json:"productId"`
	Product     *Product `json:"product,omitempty"`
	ProductName string   `gorm:"not null" json:"productName"`
	Quantity    int      `gorm:"not null" json:"quantity"`
	Price       int64    `gorm:"not null" json:"price"`
}

func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

type PaymentStatus string

const (
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusCanceled PaymentStatus = "CANCELED"
)

type Payment struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	OrderID    uint          `gorm:"uniqueIndex;not null" json:"orderId"`
	PaymentKey string        `gorm:"size:200;not null" json:"-"`
	Method     string        `gorm:"size:50" json:"method"`
	Amount     int64         `gorm:"not null" json:"amount"`
	Status     PaymentStatus `gorm:"size:20;not null" json:"status"`
	ApprovedAt *time.Time    `json:"approvedAt"`
	CanceledAt *time.Time    `json:"canceledAt,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}
