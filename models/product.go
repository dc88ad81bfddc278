package models

import "time"

type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:200;not null" json:"name"`
	Price         int64          `gorm:"not null;index" json:"price"`
	Material      string         `json:"material"`
	Summary       string         `json:"summary"`
	Collection    string         `json:"collection"`
	Lens          string         `json:"lens"`
	OriginCountry string         `json:"originCountry"`
	Shape         string         `json:"shape"`
	SizeInfo      string         `json:"sizeInfo"`
	CategoryID    uint           `gorm:"index;not null" json:"categoryId"`
	Category      *Category      `json:"category,omitempty"`
	Images        []ProductImage `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt     time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"productId"`
	URL       string `gorm:"not null" json:"url"`
}

// ProductImagesFromURLs keeps the order of urls; it is the display order.
func ProductImagesFromURLs(urls []string) []ProductImage {
	images := make([]ProductImage, 0, len(urls))
	for _, u := range urls {
		images = append(images, ProductImage{URL: u})
	}
	return images
}
