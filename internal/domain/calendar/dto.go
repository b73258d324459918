package calendar

type SetFeedsRequest struct {
	URLs []string `json:"urls" binding:"max=10"`
}

type RangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// SyncResult is the cache state after a refresh.
type SyncResult struct {
	PropertyID int64 `json:"propertyId"`
	Entry
	Failed []string `json:"failed,omitempty"`
}
