package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/middleware"
	"github.com/judyrop/storefront/services"
)

func GetCart(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func AddCartItem(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.AddCartItemInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		item, err := svc.AddItem(c.Request.Context(), middleware.CurrentUserID(c), in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func UpdateCartItem(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "itemId")
		if err != nil {
			c.Error(err)
			return
		}
		var in services.UpdateCartItemInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		item, err := svc.UpdateItem(c.Request.Context(), middleware.CurrentUserID(c), id, in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func DeleteCartItem(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "itemId")
		if err != nil {
			c.Error(err)
			return
		}
		if err := svc.DeleteItem(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
			c.Error(err)
			return
		}
		deleted(c, "cart item")
	}
}

func ClearCart(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}

func ListBookmarks(svc *services.BookmarkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := parsePage(c, services.DefaultLimit)
		if err != nil {
			c.Error(err)
			return
		}
		list, err := svc.List(c.Request.Context(), middleware.CurrentUserID(c), page)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func AddBookmark(svc *services.BookmarkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "productId")
		if err != nil {
			c.Error(err)
			return
		}
		bookmark, err := svc.Add(c.Request.Context(), middleware.CurrentUserID(c), id)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, bookmark)
	}
}

func RemoveBookmark(svc *services.BookmarkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "productId")
		if err != nil {
			c.Error(err)
			return
		}
		if err := svc.Remove(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
			c.Error(err)
			return
		}
		deleted(c, "bookmark")
	}
}
