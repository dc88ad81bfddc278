// Package services holds the storefront business rules. Every method takes
// the request context and returns *apperr.Error values for client faults.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
)

// first loads dest by primary key and turns a missing row into a 404
// naming what was looked up.
func first(db *gorm.DB, dest interface{}, id uint, what string) error {
	err := db.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s %d not found", what, id)
	}
	return err
}

// duplicateAs reports a unique-index violation as conflict. A racing
// request can pass the exists check and still lose at the index.
func duplicateAs(err error, conflict *apperr.Error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	return err
}

func exists(db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.Model(model).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func dbWith(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx)
}

func imagesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
