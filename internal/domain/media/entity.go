package media

import "time"

// Object is an uploaded file kept in the bucket under Key.
type Object struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID      int64     `gorm:"not null;index" json:"ownerId"`
	Key          string    `gorm:"size:255;not null;uniqueIndex" json:"key"`
	OriginalName string    `gorm:"size:255" json:"originalName,omitempty"`
	ContentType  string    `gorm:"size:64;not null" json:"contentType"`
	Size         int64     `gorm:"not null" json:"size"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Object) TableName() string { return "media_objects" }
