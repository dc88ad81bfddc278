// Package handlers adapts HTTP requests to the services. Every handler
// reports failures through c.Error and leaves the response to
// middleware.ErrorHandler.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/judyrop/storefront/apperr"
	"github.com/judyrop/storefront/services"
)

const dateLayout = "2006-01-02"

// parsePage reads page and limit. Malformed or out of range values are
// rejected instead of falling back to the defaults.
func parsePage(c *gin.Context, defaultLimit int) (services.Page, error) {
	page := services.Page{Page: 1, Limit: defaultLimit}

	if raw, ok := c.GetQuery("page"); ok {
		p, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || p < 1 {
			return page, apperr.BadRequest("page must be a positive integer")
		}
		page.Page = p
	}
	if raw, ok := c.GetQuery("limit"); ok {
		l, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || l < 1 || l > services.MaxLimit {
			return page, apperr.BadRequest("limit must be between 1 and %d", services.MaxLimit)
		}
		page.Limit = l
	}
	return page, nil
}

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.BadRequest("invalid %s", name)
	}
	return uint(id), nil
}

// optionalUintQuery returns 0 when the parameter is absent.
func optionalUintQuery(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.BadRequest("invalid %s", name)
	}
	return uint(id), nil
}

func parseDateRange(c *gin.Context) (services.DateRange, error) {
	var r services.DateRange
	var err error
	if r.Start, err = parseDate(c.Query("startDate"), "startDate"); err != nil {
		return r, err
	}
	if r.End, err = parseDate(c.Query("endDate"), "endDate"); err != nil {
		return r, err
	}
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return r, apperr.BadRequest("endDate must not be before startDate")
	}
	return r, nil
}

func parseDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, apperr.BadRequest("%s must be formatted as YYYY-MM-DD", field)
	}
	return &t, nil
}

// bindJSON keeps validation errors for the error middleware to describe;
// anything else means the body could not be decoded.
func bindJSON(c *gin.Context, dst interface{}) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return err
	}
	return apperr.BadRequest("invalid request body")
}

func badQuery(err error) error {
	return apperr.BadRequest("%s", err.Error())
}

func deleted(c *gin.Context, what string) {
	c.JSON(http.StatusOK, gin.H{"message": what + " deleted"})
}
