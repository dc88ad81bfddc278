package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/middleware"
	"github.com/judyrop/storefront/services"
)

func CreateOrder(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateOrderInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		order, err := svc.Create(c.Request.Context(), middleware.CurrentUserID(c), in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// ConfirmOrder is called by the client after the payment widget succeeds.
func ConfirmOrder(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ConfirmOrderInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		order, err := svc.Confirm(c.Request.Context(), middleware.CurrentUserID(c), in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func ListMyOrders(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := parsePage(c, services.DefaultLimit)
		if err != nil {
			c.Error(err)
			return
		}
		list, err := svc.ListMine(c.Request.Context(), middleware.CurrentUserID(c), page)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetMyOrder(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		order, err := svc.Detail(c.Request.Context(), middleware.CurrentUserID(c), id)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// CancelOrder accepts an empty body; the reason is optional.
func CancelOrder(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		var in services.CancelOrderInput
		if c.Request.ContentLength != 0 {
			if err := bindJSON(c, &in); err != nil {
				c.Error(err)
				return
			}
		}
		order, err := svc.Cancel(c.Request.Context(), middleware.CurrentUserID(c), id, in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func RequestReturn(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		var in services.ReturnOrderInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		order, err := svc.RequestReturn(c.Request.Context(), middleware.CurrentUserID(c), id, in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
