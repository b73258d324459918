package media

import "time"

type UploadRequest struct {
	FileName    string `json:"fileName" binding:"max=255"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"required"`
}

// UploadTicket tells the client where to PUT the file bytes.
type UploadTicket struct {
	Object    *Object           `json:"object"`
	UploadURL string            `json:"uploadUrl"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

type ViewQuery struct {
	Key string `form:"key" binding:"required"`
}

type ViewURL struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
