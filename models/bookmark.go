package models

import "time"

type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_bookmark_user_product;not null" json:"userId"`
	ProductID uint      `gorm:"uniqueIndex:idx_bookmark_user_product;not null" json:"productId"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
