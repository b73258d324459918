package destination

// Destination summarizes the live listings of one city.
type Destination struct {
	City          string  `json:"city"`
	Country       string  `json:"country"`
	PropertyCount int64   `json:"propertyCount"`
	StartingPrice float64 `json:"startingPrice"`
	AverageRating float64 `json:"averageRating"`
}

type Query struct {
	Country string `form:"country"`
	Q       string `form:"q"`
}
