package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judyrop/storefront/models"
)

func TestCartAddMergesLines(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "kim@example.com", models.RoleUser)
	cat := seedCategory(t, db, "eyewear", nil)
	lilit := seedProduct(t, db, "lilit", 10000, cat)
	noah := seedProduct(t, db, "noah", 20000, cat)
	svc := NewCartService(db)

	empty, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	_, err = svc.AddItem(ctx, user.ID, AddCartItemInput{ProductID: lilit.ID})
	require.NoError(t, err)
	merged, err := svc.AddItem(ctx, user.ID, AddCartItemInput{ProductID: lilit.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, merged.Quantity)
	_, err = svc.AddItem(ctx, user.ID, AddCartItemInput{ProductID: noah.ID, Quantity: 1})
	require.NoError(t, err)

	cart, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, empty.ID, cart.ID)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	require.NotNil(t, cart.Items[0].Product)
	assert.Len(t, cart.Items[0].Product.Images, 1)

	_, err = svc.AddItem(ctx, user.ID, AddCartItemInput{ProductID: 999})
	requireStatus(t, err, http.StatusNotFound)
}

func TestCartQuantityIsBounded(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "kim@example.com", models.RoleUser)
	cat := seedCategory(t, db, "eyewear", nil)
	lilit := seedProduct(t, db, "lilit", 10000, cat)
	svc := NewCartService(db)

	_, err := svc.AddItem(ctx, user.ID, AddCartItemInput{ProductID: lilit.ID, Quantity: maxLineQuantity + 1})
	requireStatus(t, err, http.StatusBadRequest)

	item, err := svc.AddItem(ctx, user.ID, AddCartItemInput{ProductID: lilit.ID, Quantity: maxLineQuantity - 1})
	require.NoError(t, err)
	full, err := svc.AddItem(ctx, user.ID, AddCartItemInput{ProductID: lilit.ID})
	require.NoError(t, err)
	assert.Equal(t, maxLineQuantity, full.Quantity)

	_, err = svc.AddItem(ctx, user.ID, AddCartItemInput{ProductID: lilit.ID})
	requireStatus(t, err, http.StatusBadRequest)
	_, err = svc.UpdateItem(ctx, user.ID, item.ID, UpdateCartItemInput{Quantity: maxLineQuantity + 1})
	requireStatus(t, err, http.StatusBadRequest)

	cart, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, maxLineQuantity, cart.Items[0].Quantity)
}

func TestCartAddRetriesAfterLosingLineRace(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "kim@example.com", models.RoleUser)
	cat := seedCategory(t, db, "eyewear", nil)
	lilit := seedProduct(t, db, "lilit", 10000, cat)
	failNextInsert(t, db, "cart_items")
	svc := NewCartService(db)

	item, err := svc.AddItem(ctx, user.ID, AddCartItemInput{ProductID: lilit.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	cart, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartItemsBelongToTheirOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com", models.RoleUser)
	other := seedUser(t, db, "other@example.com", models.RoleUser)
	cat := seedCategory(t, db, "eyewear", nil)
	product := seedProduct(t, db, "lilit", 10000, cat)
	svc := NewCartService(db)

	item, err := svc.AddItem(ctx, owner.ID, AddCartItemInput{ProductID: product.ID})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, other.ID, item.ID, UpdateCartItemInput{Quantity: 5})
	requireStatus(t, err, http.StatusNotFound)
	requireStatus(t, svc.DeleteItem(ctx, other.ID, item.ID), http.StatusNotFound)

	updated, err := svc.UpdateItem(ctx, owner.ID, item.ID, UpdateCartItemInput{Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = svc.UpdateItem(ctx, owner.ID, item.ID, UpdateCartItemInput{Quantity: 0})
	requireStatus(t, err, http.StatusBadRequest)

	require.NoError(t, svc.DeleteItem(ctx, owner.ID, item.ID))
	requireStatus(t, svc.DeleteItem(ctx, owner.ID, item.ID), http.StatusNotFound)
}

func TestCartClear(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "kim@example.com", models.RoleUser)
	cat := seedCategory(t, db, "eyewear", nil)
	svc := NewCartService(db)
	for _, name := range []string{"a", "b"} {
		p := seedProduct(t, db, name, 1000, cat)
		_, err := svc.AddItem(ctx, user.ID, AddCartItemInput{ProductID: p.ID})
		require.NoError(t, err)
	}

	require.NoError(t, svc.Clear(ctx, user.ID))
	cart, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestBookmarks(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "kim@example.com", models.RoleUser)
	cat := seedCategory(t, db, "eyewear", nil)
	lilit := seedProduct(t, db, "lilit", 10000, cat)
	noah := seedProduct(t, db, "noah", 20000, cat)
	svc := NewBookmarkService(db)

	_, err := svc.Add(ctx, user.ID, 999)
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.Add(ctx, user.ID, lilit.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, user.ID, lilit.ID)
	requireStatus(t, err, http.StatusConflict)
	_, err = svc.Add(ctx, user.ID, noah.ID)
	require.NoError(t, err)

	list, err := svc.List(ctx, user.ID, firstPage(10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Pagination.Total)
	require.Len(t, list.Data, 2)
	assert.Equal(t, noah.ID, list.Data[0].ProductID)
	assert.Len(t, list.Data[0].Product.Images, 1)

	require.NoError(t, svc.Remove(ctx, user.ID, lilit.ID))
	requireStatus(t, svc.Remove(ctx, user.ID, lilit.ID), http.StatusNotFound)
}
