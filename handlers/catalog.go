package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/services"
)

// CategoryTree serves GET /categories.
func CategoryTree(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tree, err := svc.Tree(c.Request.Context())
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": tree})
	}
}

// CategoryByPath serves GET /categories/:path with the breadcrumb, the
// direct children and the products of the whole subtree.
func CategoryByPath(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := parsePage(c, services.DefaultProductLimit)
		if err != nil {
			c.Error(err)
			return
		}
		result, err := svc.ByPath(c.Request.Context(), c.Param("path"), page)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func ListProducts(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := parsePage(c, services.DefaultProductLimit)
		if err != nil {
			c.Error(err)
			return
		}
		sort, err := services.ParseProductSort(c.Query("sort"))
		if err != nil {
			c.Error(badQuery(err))
			return
		}
		filter := services.ProductFilter{
			CategoryPath: c.Query("category"),
			Keyword:      c.Query("keyword"),
			Sort:         sort,
		}
		list, err := svc.List(c.Request.Context(), filter, page)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetProduct(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		product, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
