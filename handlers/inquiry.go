package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/middleware"
	"github.com/judyrop/storefront/services"
)

// inquiryFilter reads type and status; admins also get search and dates.
func inquiryFilter(c *gin.Context, admin bool) (services.InquiryFilter, error) {
	var filter services.InquiryFilter
	if raw := c.Query("type"); raw != "" {
		t, err := services.ParseInquiryType(raw)
		if err != nil {
			return filter, badQuery(err)
		}
		filter.Type = t
	}
	if raw := c.Query("status"); raw != "" {
		st, err := services.ParseInquiryStatus(raw)
		if err != nil {
			return filter, badQuery(err)
		}
		filter.Status = st
	}
	if !admin {
		return filter, nil
	}
	filter.Search = c.Query("search")
	dates, err := parseDateRange(c)
	if err != nil {
		return filter, err
	}
	filter.Dates = dates
	return filter, nil
}

func MyInquiries(svc *services.InquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := parsePage(c, services.DefaultLimit)
		if err != nil {
			c.Error(err)
			return
		}
		filter, err := inquiryFilter(c, false)
		if err != nil {
			c.Error(err)
			return
		}
		list, err := svc.ListMine(c.Request.Context(), middleware.CurrentUserID(c), filter, page)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetMyInquiry(svc *services.InquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		inquiry, err := svc.Detail(c.Request.Context(), middleware.CurrentUserID(c), id)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, inquiry)
	}
}

func CreateInquiry(svc *services.InquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateInquiryInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		inquiry, err := svc.Create(c.Request.Context(), middleware.CurrentUserID(c), in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, inquiry)
	}
}

func UpdateInquiry(svc *services.InquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		var in services.UpdateInquiryInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		inquiry, err := svc.Update(c.Request.Context(), middleware.CurrentUserID(c), id, in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, inquiry)
	}
}

func DeleteInquiry(svc *services.InquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		if err := svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
			c.Error(err)
			return
		}
		deleted(c, "inquiry")
	}
}
