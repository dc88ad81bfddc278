package models

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Path      string    `gorm:"uniqueIndex;size:100;not null" json:"path"`
	ParentID  *uint     `gorm:"index" json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Children []*Category `gorm:"-" json:"children,omitempty"`
}

// CategorySummary is the short form used in breadcrumbs and product detail.
type CategorySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

func (c Category) Summary() CategorySummary {
	return CategorySummary{ID: c.ID, Name: c.Name, Path: c.Path}
}
