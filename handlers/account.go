package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/middleware"
	"github.com/judyrop/storefront/services"
)

func Register(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.RegisterInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		user, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func Login(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.LoginInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		result, err := svc.Login(c.Request.Context(), in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func Me(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.Me(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func UpdateProfile(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.UpdateProfileInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		user, err := svc.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), in)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func ChangePassword(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ChangePasswordInput
		if err := bindJSON(c, &in); err != nil {
			c.Error(err)
			return
		}
		if err := svc.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), in); err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password changed"})
	}
}
