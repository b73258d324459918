package review

import "time"

type Review struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	PropertyID    int64      `gorm:"not null;uniqueIndex:idx_reviews_user_property,priority:2;index" json:"propertyId"`
	UserID        int64      `gorm:"not null;uniqueIndex:idx_reviews_user_property,priority:1" json:"userId"`
	Rating        int        `gorm:"not null" json:"rating"`
	Comment       string     `gorm:"type:text" json:"comment,omitempty"`
	OwnerResponse *string    `gorm:"type:text" json:"ownerResponse,omitempty"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (Review) TableName() string { return "reviews" }

// Summary is the aggregate stored on the property.
type Summary struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}
