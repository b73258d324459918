package review

import "staysphere/internal/pkg/pagination"

type CreateReviewRequest struct {
	PropertyID int64  `json:"propertyId" binding:"required,gt=0"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment" binding:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}

type RespondRequest struct {
	Response string `json:"response" binding:"required,max=2000"`
}

// PropertyReviews is a page of reviews plus the property aggregate.
type PropertyReviews struct {
	pagination.Page[Review]
	Summary Summary `json:"summary"`
}
