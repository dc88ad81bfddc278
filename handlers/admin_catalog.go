package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/services"
)

func CreateCategory(svc *services.AdminCategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateCategoryInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		category, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(svc *services.AdminCategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		var in services.UpdateCategoryInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		category, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func DeleteCategory(svc *services.AdminCategoryService) gin.HandlerFunc {
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
		deleted(c, "category")
	}
}

// CategoryStats reports the product count and average price of a subtree.
func CategoryStats(svc *services.AdminCategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		stats, err := svc.Stats(c.Request.Context(), id)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func CreateProduct(svc *services.AdminProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateProductInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		product, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(svc *services.AdminProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		var in services.UpdateProductInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		product, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(svc *services.AdminProductService) gin.HandlerFunc {
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
		deleted(c, "product")
	}
}
