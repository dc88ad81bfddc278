package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/middleware"
	"github.com/judyrop/storefront/services"
)

func reviewQuery(c *gin.Context) (services.ReviewSort, services.Page, error) {
	page, err := parsePage(c, services.DefaultLimit)
	if err != nil {
		return "", page, err
	}
	sort, err := services.ParseReviewSort(c.Query("sort"))
	if err != nil {
		return "", page, badQuery(err)
	}
	return sort, page, nil
}

// ProductReviews serves the public GET /reviews?productId=.
func ProductReviews(svc *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := optionalUintQuery(c, "productId")
		if err != nil {
			c.Error(err)
			return
		}
		if productID == 0 {
			c.Error(apperr.BadRequest("productId is required"))
			return
		}
		sort, page, err := reviewQuery(c)
		if err != nil {
			c.Error(err)
			return
		}
		list, err := svc.ListByProduct(c.Request.Context(), productID, sort, page)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func MyReviews(svc *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sort, page, err := reviewQuery(c)
		if err != nil {
			c.Error(err)
			return
		}
		list, err := svc.ListMine(c.Request.Context(), middleware.CurrentUserID(c), sort, page)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func CreateReview(svc *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateReviewInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		review, err := svc.Create(c.Request.Context(), middleware.CurrentUserID(c), in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

func UpdateReview(svc *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		var in services.UpdateReviewInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		review, err := svc.Update(c.Request.Context(), middleware.CurrentUserID(c), id, in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

func DeleteReview(svc *services.ReviewService) gin.HandlerFunc {
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
		deleted(c, "review")
	}
}
