package services

import (
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judyrop/storefront/models"
	"github.com/judyrop/storefront/payment"
)

func checkoutInput(items ...OrderItemInput) CreateOrderInput {
	return CreateOrderInput{
		Items:          items,
		RecipientName:  "Kim",
		RecipientPhone: "010-1234-5678",
		ZipCode:        "12345",
		Address1:       "Seoul",
	}
}

func TestCreateOrderSnapshotsPrices(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com", models.RoleUser)
	cat := seedCategory(t, db, "glasses", nil)
	a := seedProduct(t, db, "lilit", 10000, cat)
	b := seedProduct(t, db, "noah", 25000, cat)

	svc := NewOrderService(db, &fakeGateway{}, nil)
	order, err := svc.Create(ctx, user.ID, checkoutInput(
		OrderItemInput{ProductID: a.ID, Quantity: 2},
		OrderItemInput{ProductID: b.ID, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, int64(45000), order.TotalPrice)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "lilit", order.Items[0].ProductName)

	require.NoError(t, db.Model(&a).Update("price", 99999).Error)

	detail, err := svc.Detail(ctx, user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(45000), detail.TotalPrice)
	assert.Equal(t, int64(10000), detail.Items[0].Price)
}

func TestCreateOrderMissingProductWritesNothing(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com", models.RoleUser)
	cat := seedCategory(t, db, "glasses", nil)
	a := seedProduct(t, db, "lilit", 10000, cat)

	svc := NewOrderService(db, &fakeGateway{}, nil)
	_, err := svc.Create(ctx, user.ID, checkoutInput(
		OrderItemInput{ProductID: a.ID, Quantity: 1},
		OrderItemInput{ProductID: 9999, Quantity: 1},
	))
	requireStatus(t, err, http.StatusNotFound)
	assert.Contains(t, err.Error(), "9999")

	var orders, items int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderItem{}).Count(&items)
	assert.Zero(t, orders)
	assert.Zero(t, items)

	_, err = svc.Create(ctx, user.ID, checkoutInput())
	requireStatus(t, err, http.StatusBadRequest)
}

func TestCreateOrderRejectsOversizedTotals(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com", models.RoleUser)
	cat := seedCategory(t, db, "glasses", nil)
	lilit := seedProduct(t, db, "lilit", 300000, cat)
	gold := seedProduct(t, db, "gold", math.MaxInt64/2, cat)
	svc := NewOrderService(db, &fakeGateway{}, nil)

	tests := []struct {
		name  string
		items []OrderItemInput
	}{
		{"quantity far above the line limit", []OrderItemInput{{ProductID: lilit.ID, Quantity: 511774169751615327}}},
		{"quantity just above the line limit", []OrderItemInput{{ProductID: lilit.ID, Quantity: maxLineQuantity + 1}}},
		{"line subtotal overflows", []OrderItemInput{{ProductID: gold.ID, Quantity: 3}}},
		{"sum of lines overflows", []OrderItemInput{
			{ProductID: gold.ID, Quantity: 2},
			{ProductID: lilit.ID, Quantity: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, user.ID, checkoutInput(tt.items...))
			requireStatus(t, err, http.StatusBadRequest)
		})
	}

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	order, err := svc.Create(ctx, user.ID, checkoutInput(OrderItemInput{ProductID: lilit.ID, Quantity: maxLineQuantity}))
	require.NoError(t, err)
	assert.Equal(t, int64(300000*maxLineQuantity), order.TotalPrice)
}

func TestLineTotal(t *testing.T) {
	total, ok := lineTotal(1000, 10000, 3)
	assert.True(t, ok)
	assert.Equal(t, int64(31000), total)

	_, ok = lineTotal(0, math.MaxInt64/2, 3)
	assert.False(t, ok)
	_, ok = lineTotal(math.MaxInt64-1, 1, 2)
	assert.False(t, ok)

	total, ok = lineTotal(0, 0, maxLineQuantity)
	assert.True(t, ok)
	assert.Zero(t, total)
}

func TestCreateOrderFromCartRemovesPurchasedLines(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com", models.RoleUser)
	cat := seedCategory(t, db, "glasses", nil)
	a := seedProduct(t, db, "lilit", 10000, cat)
	b := seedProduct(t, db, "noah", 25000, cat)

	carts := NewCartService(db)
	_, err := carts.AddItem(ctx, user.ID, AddCartItemInput{ProductID: a.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, user.ID, AddCartItemInput{ProductID: b.ID, Quantity: 1})
	require.NoError(t, err)

	in := checkoutInput(OrderItemInput{ProductID: a.ID, Quantity: 1})
	in.FromCart = true
	_, err = NewOrderService(db, &fakeGateway{}, nil).Create(ctx, user.ID, in)
	require.NoError(t, err)

	cart, err := carts.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, b.ID, cart.Items[0].ProductID)
}

func TestConfirmOrder(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "buyer@example.com", models.RoleUser)
	other := seedUser(t, db, "other@example.com", models.RoleUser)
	cat := seedCategory(t, db, "glasses", nil)
	p := seedProduct(t, db, "lilit", 50000, cat)
	order := seedOrder(t, db, owner, models.OrderStatusPending, p)

	gateway := &fakeGateway{}
	notifier := &fakeNotifier{}
	svc := NewOrderService(db, gateway, notifier)

	_, err := svc.Confirm(ctx, owner.ID, ConfirmOrderInput{OrderID: 999, PaymentKey: "pk", Amount: 50000})
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.Confirm(ctx, other.ID, ConfirmOrderInput{OrderID: order.ID, PaymentKey: "pk", Amount: 50000})
	requireStatus(t, err, http.StatusForbidden)

	_, err = svc.Confirm(ctx, owner.ID, ConfirmOrderInput{OrderID: order.ID, PaymentKey: "pk", Amount: 49000})
	requireStatus(t, err, http.StatusBadRequest)
	assert.Empty(t, gateway.confirms)

	confirmed, err := svc.Confirm(ctx, owner.ID, ConfirmOrderInput{OrderID: order.ID, PaymentKey: "pk_live", Amount: 50000})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, confirmed.Status)
	require.NotNil(t, confirmed.Payment)
	assert.Equal(t, models.PaymentStatusPaid, confirmed.Payment.Status)
	assert.Equal(t, "CARD", confirmed.Payment.Method)
	assert.Equal(t, "pk_live", confirmed.Payment.PaymentKey)
	assert.Equal(t, int64(50000), confirmed.Payment.Amount)

	require.Len(t, gateway.confirms, 1)
	assert.Equal(t, payment.ConfirmRequest{PaymentKey: "pk_live", OrderID: "1", Amount: 50000}, gateway.confirms[0])
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "010-1234-5678", notifier.sent[0].phone)

	_, err = svc.Confirm(ctx, owner.ID, ConfirmOrderInput{OrderID: order.ID, PaymentKey: "pk_live", Amount: 50000})
	requireStatus(t, err, http.StatusBadRequest)
	assert.Len(t, gateway.confirms, 1)
}

func TestConfirmOrderGatewayFailureLeavesOrderPending(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "buyer@example.com", models.RoleUser)
	cat := seedCategory(t, db, "glasses", nil)
	p := seedProduct(t, db, "lilit", 50000, cat)
	order := seedOrder(t, db, owner, models.OrderStatusPending, p)

	gateway := &fakeGateway{confirmErr: &payment.GatewayError{StatusCode: 400, Code: "REJECT_CARD_COMPANY", Message: "card declined"}}
	svc := NewOrderService(db, gateway, nil)

	_, err := svc.Confirm(ctx, owner.ID, ConfirmOrderInput{OrderID: order.ID, PaymentKey: "pk", Amount: 50000})
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "card declined")

	gateway.confirmErr = errors.New("connection reset")
	_, err = svc.Confirm(ctx, owner.ID, ConfirmOrderInput{OrderID: order.ID, PaymentKey: "pk", Amount: 50000})
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "payment confirmation failed")

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	var payments int64
	db.Model(&models.Payment{}).Count(&payments)
	assert.Zero(t, payments)
}

func TestConfirmOrderRefundsWhenLocalWriteFails(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "buyer@example.com", models.RoleUser)
	cat := seedCategory(t, db, "glasses", nil)
	p := seedProduct(t, db, "lilit", 50000, cat)
	order := seedOrder(t, db, owner, models.OrderStatusPending, p)
	// A stale payment row makes the insert hit the unique order_id index.
	seedPayment(t, db, order)

	gateway := &fakeGateway{}
	svc := NewOrderService(db, gateway, nil)
	_, err := svc.Confirm(ctx, owner.ID, ConfirmOrderInput{OrderID: order.ID, PaymentKey: "pk_new", Amount: 50000})
	require.Error(t, err)

	assert.Equal(t, []string{"pk_new"}, gateway.cancels)
	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
}

func TestCancelOrder(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "buyer@example.com", models.RoleUser)
	other := seedUser(t, db, "other@example.com", models.RoleUser)
	cat := seedCategory(t, db, "glasses", nil)
	p := seedProduct(t, db, "lilit", 50000, cat)

	gateway := &fakeGateway{}
	svc := NewOrderService(db, gateway, nil)

	pending := seedOrder(t, db, owner, models.OrderStatusPending, p)
	_, err := svc.Cancel(ctx, other.ID, pending.ID, CancelOrderInput{})
	requireStatus(t, err, http.StatusNotFound)

	canceled, err := svc.Cancel(ctx, owner.ID, pending.ID, CancelOrderInput{})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, canceled.Status)
	assert.Empty(t, gateway.cancels)

	_, err = svc.Cancel(ctx, owner.ID, pending.ID, CancelOrderInput{})
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "already canceled")

	paid := seedOrder(t, db, owner, models.OrderStatusPaid, p)
	pay := seedPayment(t, db, paid)
	refunded, err := svc.Cancel(ctx, owner.ID, paid.ID, CancelOrderInput{Reason: "changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, refunded.Status)
	assert.Equal(t, []string{pay.PaymentKey}, gateway.cancels)
	require.NotNil(t, refunded.Payment)
	assert.Equal(t, models.PaymentStatusCanceled, refunded.Payment.Status)
	assert.NotNil(t, refunded.Payment.CanceledAt)
}

func TestCancelOrderByStatus(t *testing.T) {
	tests := []struct {
		status  models.OrderStatus
		wantErr int
		message string
	}{
		{models.OrderStatusPending, 0, ""},
		{models.OrderStatusPaid, 0, ""},
		{models.OrderStatusShipped, http.StatusBadRequest, "already shipped"},
		{models.OrderStatusDelivered, http.StatusBadRequest, "already shipped"},
		{models.OrderStatusReturnRequested, http.StatusBadRequest, "already shipped"},
		{models.OrderStatusReturnCompleted, http.StatusBadRequest, "already shipped"},
		{models.OrderStatusCanceled, http.StatusBadRequest, "already canceled"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			db := newTestDB(t)
			owner := seedUser(t, db, "buyer@example.com", models.RoleUser)
			cat := seedCategory(t, db, "glasses", nil)
			p := seedProduct(t, db, "lilit", 50000, cat)
			order := seedOrder(t, db, owner, tt.status, p)
			if tt.status != models.OrderStatusPending {
				seedPayment(t, db, order)
			}
			svc := NewOrderService(db, &fakeGateway{}, nil)

			_, err := svc.Cancel(ctx, owner.ID, order.ID, CancelOrderInput{})

			var stored models.Order
			require.NoError(t, db.First(&stored, order.ID).Error)
			if tt.wantErr == 0 {
				require.NoError(t, err)
				assert.Equal(t, models.OrderStatusCanceled, stored.Status)
				return
			}
			requireStatus(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, tt.status, stored.Status)
		})
	}
}

func TestCancelOrderRefundFailureKeepsOrderPaid(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "buyer@example.com", models.RoleUser)
	cat := seedCategory(t, db, "glasses", nil)
	p := seedProduct(t, db, "lilit", 50000, cat)
	paid := seedOrder(t, db, owner, models.OrderStatusPaid, p)
	seedPayment(t, db, paid)

	svc := NewOrderService(db, &fakeGateway{cancelErr: errors.New("gateway down")}, nil)
	_, err := svc.Cancel(ctx, owner.ID, paid.ID, CancelOrderInput{})
	requireStatus(t, err, http.StatusInternalServerError)

	var stored models.Order
	require.NoError(t, db.Preload("Payment").First(&stored, paid.ID).Error)
	assert.Equal(t, models.OrderStatusPaid, stored.Status)
	assert.Equal(t, models.PaymentStatusPaid, stored.Payment.Status)
}

func TestRequestReturn(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "buyer@example.com", models.RoleUser)
	other := seedUser(t, db, "other@example.com", models.RoleUser)
	cat := seedCategory(t, db, "glasses", nil)
	p := seedProduct(t, db, "lilit", 50000, cat)
	svc := NewOrderService(db, &fakeGateway{}, nil)

	delivered := seedOrder(t, db, owner, models.OrderStatusDelivered, p)
	_, err := svc.RequestReturn(ctx, other.ID, delivered.ID, ReturnOrderInput{Reason: "wrong size"})
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.RequestReturn(ctx, owner.ID, delivered.ID, ReturnOrderInput{Reason: "bad"})
	requireStatus(t, err, http.StatusBadRequest)

	returned, err := svc.RequestReturn(ctx, owner.ID, delivered.ID, ReturnOrderInput{Reason: "wrong size"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReturnRequested, returned.Status)
	require.NotNil(t, returned.ReturnReason)
	assert.Equal(t, "wrong size", *returned.ReturnReason)
}

func TestRequestReturnByStatus(t *testing.T) {
	tests := []struct {
		status  models.OrderStatus
		wantErr int
	}{
		{models.OrderStatusPending, http.StatusBadRequest},
		{models.OrderStatusPaid, http.StatusBadRequest},
		{models.OrderStatusShipped, http.StatusBadRequest},
		{models.OrderStatusDelivered, 0},
		{models.OrderStatusCanceled, http.StatusBadRequest},
		{models.OrderStatusReturnRequested, http.StatusBadRequest},
		{models.OrderStatusReturnCompleted, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			db := newTestDB(t)
			owner := seedUser(t, db, "buyer@example.com", models.RoleUser)
			cat := seedCategory(t, db, "glasses", nil)
			p := seedProduct(t, db, "lilit", 50000, cat)
			order := seedOrder(t, db, owner, tt.status, p)
			svc := NewOrderService(db, &fakeGateway{}, nil)

			_, err := svc.RequestReturn(ctx, owner.ID, order.ID, ReturnOrderInput{Reason: "wrong size"})

			var stored models.Order
			require.NoError(t, db.First(&stored, order.ID).Error)
			if tt.wantErr == 0 {
				require.NoError(t, err)
				assert.Equal(t, models.OrderStatusReturnRequested, stored.Status)
				return
			}
			requireStatus(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "only delivered orders")
			assert.Equal(t, tt.status, stored.Status)
			assert.Nil(t, stored.ReturnReason)
		})
	}
}

func TestListMyOrders(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "buyer@example.com", models.RoleUser)
	other := seedUser(t, db, "other@example.com", models.RoleUser)
	cat := seedCategory(t, db, "glasses", nil)
	p := seedProduct(t, db, "lilit", 50000, cat)
	for i := 0; i < 3; i++ {
		seedOrder(t, db, owner, models.OrderStatusPending, p)
	}
	seedOrder(t, db, other, models.OrderStatusPending, p)

	list, err := NewOrderService(db, &fakeGateway{}, nil).ListMine(ctx, owner.ID, Page{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Pagination.Total)
	assert.Equal(t, 2, list.Pagination.TotalPages)
	require.Len(t, list.Data, 2)
	assert.Greater(t, list.Data[0].ID, list.Data[1].ID)
	assert.Len(t, list.Data[0].Items, 1)
}
