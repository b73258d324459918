package property

import "time"

type CreatePropertyRequest struct {
	Title          string   `json:"title" binding:"required,min=3,max=200"`
	Description    string   `json:"description" binding:"max=5000"`
	Type           Type     `json:"type" binding:"required,oneof=APARTMENT HOUSE VILLA CABIN ROOM OTHER"`
	Address        string   `json:"address" binding:"max=255"`
	City           string   `json:"city" binding:"required,max=120"`
	Country        string   `json:"country" binding:"required,max=120"`
	Latitude       *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude" binding:"omitempty,longitude"`
	Price          float64  `json:"price" binding:"required,gt=0"`
	MaxGuests      int      `json:"maxGuests" binding:"required,gt=0"`
	Bedrooms       int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms      int      `json:"bathrooms" binding:"gte=0"`
	Amenities      []string `json:"amenities" binding:"omitempty,dive,max=60"`
	Images         []string `json:"images" binding:"omitempty,dive,required"`
	InstantBooking bool     `json:"instantBooking"`
}

type UpdatePropertyRequest struct {
	Title          *string   `json:"title" binding:"omitempty,min=3,max=200"`
	Description    *string   `json:"description" binding:"omitempty,max=5000"`
	Type           *Type     `json:"type" binding:"omitempty,oneof=APARTMENT HOUSE VILLA CABIN ROOM OTHER"`
	Address        *string   `json:"address" binding:"omitempty,max=255"`
	City           *string   `json:"city" binding:"omitempty,max=120"`
	Country        *string   `json:"country" binding:"omitempty,max=120"`
	Latitude       *float64  `json:"latitude" binding:"omitempty,latitude"`
	Longitude      *float64  `json:"longitude" binding:"omitempty,longitude"`
	Price          *float64  `json:"price" binding:"omitempty,gt=0"`
	MaxGuests      *int      `json:"maxGuests" binding:"omitempty,gt=0"`
	Bedrooms       *int      `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms      *int      `json:"bathrooms" binding:"omitempty,gte=0"`
	Amenities      *[]string `json:"amenities"`
	Images         *[]string `json:"images"`
	InstantBooking *bool     `json:"instantBooking"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

// SearchQuery is bound from the public search query string.
type SearchQuery struct {
	Q              string   `form:"q"`
	City           string   `form:"city"`
	Country        string   `form:"country"`
	Type           string   `form:"type"`
	MinPrice       float64  `form:"minPrice" binding:"gte=0"`
	MaxPrice       float64  `form:"maxPrice" binding:"gte=0"`
	Guests         int      `form:"guests" binding:"gte=0"`
	Bedrooms       int      `form:"bedrooms" binding:"gte=0"`
	Amenities      []string `form:"amenities"`
	InstantBooking *bool    `form:"instantBooking"`
	CheckIn        string   `form:"checkIn"`
	CheckOut       string   `form:"checkOut"`
	Sort           string   `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc rating"`
}

// Filter is the parsed form of SearchQuery used by the repository.
type Filter struct {
	Query          string
	City           string
	Country        string
	Type           Type
	MinPrice       float64
	MaxPrice       float64
	Guests         int
	Bedrooms       int
	Amenities      []string
	InstantBooking *bool
	CheckIn        *time.Time
	CheckOut       *time.Time
	Sort           string
	Statuses       []Status
	OwnerID        int64
}
