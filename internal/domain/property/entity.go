package property

import (
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusLive      Status = "LIVE"
	StatusRejected  Status = "REJECTED"
	StatusSuspended Status = "SUSPENDED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusLive, StatusRejected, StatusSuspended:
		return true
	}
	return false
}

type Type string

const (
	TypeApartment Type = "APARTMENT"
	TypeHouse     Type = "HOUSE"
	TypeVilla     Type = "VILLA"
	TypeCabin     Type = "CABIN"
	TypeRoom      Type = "ROOM"
	TypeOther     Type = "OTHER"
)

type Property struct {
	ID              int64          `gorm:"primaryKey" json:"id"`
	OwnerID         int64          `gorm:"not null;index" json:"ownerId"`
	Title           string         `gorm:"size:200;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Type            Type           `gorm:"size:16;not null;index" json:"type"`
	Address         string         `gorm:"size:255" json:"address"`
	City            string         `gorm:"size:120;not null;index" json:"city"`
	Country         string         `gorm:"size:120;not null;index" json:"country"`
	Latitude        *float64       `json:"latitude,omitempty"`
	Longitude       *float64       `json:"longitude,omitempty"`
	Price           float64        `gorm:"not null" json:"price"`
	MaxGuests       int            `gorm:"not null" json:"maxGuests"`
	Bedrooms        int            `gorm:"not null" json:"bedrooms"`
	Bathrooms       int            `gorm:"not null" json:"bathrooms"`
	Amenities       []string       `gorm:"serializer:json;type:text" json:"amenities"`
	Images          []string       `gorm:"serializer:json;type:text" json:"images"`
	InstantBooking  bool           `gorm:"not null" json:"instantBooking"`
	Status          Status         `gorm:"size:16;not null;index" json:"status"`
	RejectionReason string         `gorm:"type:text" json:"rejectionReason,omitempty"`
	AverageRating   float64        `gorm:"not null" json:"averageRating"`
	ReviewCount     int            `gorm:"not null" json:"reviewCount"`
	CalendarFeeds   []string       `gorm:"serializer:json;type:text" json:"calendarFeeds,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Property) TableName() string { return "properties" }

// Bookable reports whether the listing currently accepts reservations.
func (p *Property) Bookable() bool {
	return p.Status == StatusLive
}
