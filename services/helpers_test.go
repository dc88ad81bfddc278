package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/auth"
	"github.com/judyrop/storefront/database/dbtest"
	"github.com/judyrop/storefront/models"
	"github.com/judyrop/storefront/payment"
)

type fakeGateway struct {
	mu         sync.Mutex
	confirmErr error
	cancelErr  error
	confirms   []payment.ConfirmRequest
	cancels    []string
}

func (g *fakeGateway) Confirm(_ context.Context, req payment.ConfirmRequest) (*payment.Confirmation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.confirms = append(g.confirms, req)
	if g.confirmErr != nil {
		return nil, g.confirmErr
	}
	return &payment.Confirmation{
		PaymentKey: req.PaymentKey,
		OrderID:    req.OrderID,
		Method:     "CARD",
		Status:     "DONE",
		Amount:     req.Amount,
		ApprovedAt: time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC),
	}, nil
}

func (g *fakeGateway) Cancel(_ context.Context, paymentKey, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancels = append(g.cancels, paymentKey)
	return g.cancelErr
}

type sentSMS struct{ phone, message string }

type fakeNotifier struct {
	sent []sentSMS
	err  error
}

func (n *fakeNotifier) SendSMS(_ context.Context, phone, message string) error {
	n.sent = append(n.sent, sentSMS{phone, message})
	return n.err
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, status, apperr.StatusOf(err), "unexpected error: %v", err)
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123!")
	require.NoError(t, err)
	user := models.User{Email: email, Password: hash, Name: "Name of " + email, Phone: "010-0000-0000", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, path string, parent *models.Category) models.Category {
	t.Helper()
	category := models.Category{Name: path, Path: path}
	if parent != nil {
		category.ParentID = &parent.ID
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, category models.Category) models.Product {
	t.Helper()
	product := models.Product{
		Name:       name,
		Price:      price,
		Material:   "Acetate",
		Summary:    name + " summary",
		CategoryID: category.ID,
		Images: models.ProductImagesFromURLs([]string{
			fmt.Sprintf("https://img.example.com/%s-1.jpg", name),
			fmt.Sprintf("https://img.example.com/%s-2.jpg", name),
		}),
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// seedOrder stores an order in the given status without going through checkout.
func seedOrder(t *testing.T, db *gorm.DB, user models.User, status models.OrderStatus, products ...models.Product) models.Order {
	t.Helper()
	order := models.Order{
		UserID:         user.ID,
		Status:         status,
		RecipientName:  "Kim",
		RecipientPhone: "010-1234-5678",
		ZipCode:        "12345",
		Address1:       "Seoul",
	}
	for _, p := range products {
		order.Items = append(order.Items, models.OrderItem{ProductID: p.ID, ProductName: p.Name, Quantity: 1, Price: p.Price})
		order.TotalPrice += p.Price
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func seedPayment(t *testing.T, db *gorm.DB, order models.Order) models.Payment {
	t.Helper()
	now := time.Now()
	p := models.Payment{
		OrderID:    order.ID,
		PaymentKey: fmt.Sprintf("pk_%d", order.ID),
		Method:     "CARD",
		Amount:     order.TotalPrice,
		Status:     models.PaymentStatusPaid,
		ApprovedAt: &now,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// failNextInsert makes the next insert into table fail the way a request
// that lost a unique-index race does.
func failNextInsert(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	var once sync.Once
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_next_insert", func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		once.Do(func() { tx.AddError(gorm.ErrDuplicatedKey) })
	})
	require.NoError(t, err)
}

func newTestDB(t *testing.T) *gorm.DB {
	return dbtest.New(t)
}

var ctx = context.Background()

func firstPage(limit int) Page {
	return Page{Page: 1, Limit: limit}
}
