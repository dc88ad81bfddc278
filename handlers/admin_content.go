package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/middleware"
	"github.com/judyrop/storefront/services"
)

func AdminListReviews(svc *services.AdminReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := parsePage(c, services.DefaultLimit)
		if err != nil {
			c.Error(err)
			return
		}
		filter := services.AdminReviewFilter{Search: c.Query("search")}
		if filter.ProductID, err = optionalUintQuery(c, "productId"); err != nil {
			c.Error(err)
			return
		}
		if filter.UserID, err = optionalUintQuery(c, "userId"); err != nil {
			c.Error(err)
			return
		}
		if filter.Dates, err = parseDateRange(c); err != nil {
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

func AdminDeleteReview(svc *services.AdminReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			c.Error(err)
			return
		}
		deleted(c, "review")
	}
}

func AdminListInquiries(svc *services.AdminInquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := parsePage(c, services.DefaultLimit)
		if err != nil {
			c.Error(err)
			return
		}
		filter, err := inquiryFilter(c, true)
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

func AdminGetInquiry(svc *services.AdminInquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		inquiry, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, inquiry)
	}
}

func AnswerInquiry(svc *services.AdminInquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		var in services.AnswerInquiryInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		inquiry, err := svc.Answer(c.Request.Context(), id, in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, inquiry)
	}
}

func AdminDeleteInquiry(svc *services.AdminInquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			c.Error(err)
			return
		}
		deleted(c, "inquiry")
	}
}

func AdminListUsers(svc *services.AdminUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := parsePage(c, services.DefaultLimit)
		if err != nil {
			c.Error(err)
			return
		}
		list, err := svc.List(c.Request.Context(), c.Query("search"), page)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func AdminGetUser(svc *services.AdminUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		user, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func AdminCreateUser(svc *services.AdminUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.AdminCreateUserInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		user, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func AdminUpdateUser(svc *services.AdminUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		var in services.AdminUpdateUserInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		user, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func AdminDeleteUser(svc *services.AdminUserService) gin.HandlerFunc {
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
		deleted(c, "user")
	}
}
