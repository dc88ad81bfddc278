package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/models"
	"github.com/judyrop/storefront/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func adminOrderFilter(c *gin.Context) (services.AdminOrderFilter, error) {
	filter := services.AdminOrderFilter{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			return filter, badQuery(err)
		}
		filter.Status = status
	}
	dates, err := parseDateRange(c)
	if err != nil {
		return filter, err
	}
	filter.Dates = dates
	return filter, nil
}

func AdminListOrders(svc *services.AdminOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := parsePage(c, services.DefaultAdminOrderLimit)
		if err != nil {
			c.Error(err)
			return
		}
		filter, err := adminOrderFilter(c)
		if err != nil {
			c.Error(err)
			return
		}
		list, err := svc.List(c.Request.Context(), filter, page)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func AdminGetOrder(svc *services.AdminOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		order, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func AdminUpdateOrderStatus(svc *services.AdminOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		var in services.UpdateOrderStatusInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		order, err := svc.UpdateStatus(c.Request.Context(), id, in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// ExportOrders streams the filtered orders as an xlsx attachment.
func ExportOrders(svc *services.AdminOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := adminOrderFilter(c)
		if err != nil {
			c.Error(err)
			return
		}
		file, err := svc.Export(c.Request.Context(), filter)
		if err != nil {
			c.Error(err)
			return
		}

		name := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))
		c.Header("Content-Disposition", "attachment; filename="+name)
		c.Header("Content-Type", xlsxContentType)
		c.Status(http.StatusOK)
		if err := file.Write(c.Writer); err != nil {
			log.Printf("[ADMIN] [ERROR] writing order export: %v", err)
		}
	}
}
