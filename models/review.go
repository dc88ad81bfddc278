package models

import "time"

type Review struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"uniqueIndex:idx_review_user_product;not null" json:"userId"`
	User      *User         `json:"-"`
	Author    *UserSummary  `gorm:"-" json:"author,omitempty"`
	ProductID uint          `gorm:"uniqueIndex:idx_review_user_product;not null;index" json:"productId"`
	Product   *Product      `json:"product,omitempty"`
	Rating    int           `gorm:"not null" json:"rating"`
	Content   string        `gorm:"type:text" json:"content"`
	Images    []ReviewImage `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// FillAuthor exposes only the summary of a preloaded author.
func (r *Review) FillAuthor() {
	if r.User != nil {
		summary := r.User.Summary()
		r.Author = &summary
	}
}

type ReviewImage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ReviewID uint   `gorm:"index;not null" json:"reviewId"`
	URL      string `gorm:"not null" json:"url"`
}

func ReviewImagesFromURLs(reviewID uint, urls []string) []ReviewImage {
	images := make([]ReviewImage, 0, len(urls))
	for _, u := range urls {
		images = append(images, ReviewImage{ReviewID: reviewID, URL: u})
	}
	return images
}
