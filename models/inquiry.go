package models

import "time"

type InquiryType string

const (
	InquiryTypeDelivery       InquiryType = "DELIVERY"
	InquiryTypeProduct        InquiryType = "PRODUCT"
	InquiryTypeExchangeReturn InquiryType = "EXCHANGE_RETURN"
	InquiryTypeMember         InquiryType = "MEMBER"
	InquiryTypeOther          InquiryType = "OTHER"
)

type InquiryStatus string

const (
	InquiryStatusPending  InquiryStatus = "PENDING"
	InquiryStatusAnswered InquiryStatus = "ANSWERED"
)

// Inquiry content is editable only while it is PENDING.
type Inquiry struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"index;not null" json:"userId"`
	User       *User          `json:"user,omitempty"`
	Type       InquiryType    `gorm:"size:20;not null" json:"type"`
	Title      string         `gorm:"size:200;not null" json:"title"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Status     InquiryStatus  `gorm:"size:20;not null;index" json:"status"`
	Answer     *string        `gorm:"type:text" json:"answer"`
	AnsweredAt *time.Time     `json:"answeredAt"`
	Images     []InquiryImage `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (i Inquiry) Answered() bool {
	return i.Status == InquiryStatusAnswered
}

type InquiryImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	InquiryID uint   `gorm:"index;not null" json:"inquiryId"`
	URL       string `gorm:"not null" json:"url"`
}

func InquiryImagesFromURLs(inquiryID uint, urls []string) []InquiryImage {
	images := make([]InquiryImage, 0, len(urls))
	for _, u := range urls {
		images = append(images, InquiryImage{InquiryID: inquiryID, URL: u})
	}
	return images
}

// All lists every table in migration order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Category{}, &Product{}, &ProductImage{},
		&Cart{}, &CartItem{}, &Order{}, &OrderItem{}, &Payment{},
		&Review{}, &ReviewImage{}, &Inquiry{}, &InquiryImage{}, &Bookmark{},
	}
}
