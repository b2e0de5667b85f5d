package dto

import "time"

// CreateNoticeRequest is the admin payload for posting a notice
type CreateNoticeRequest struct {
	Title    string `json:"title" binding:"required,max=200" example:"Annual sports week"`
	Text     string `json:"text" binding:"required" example:"Sports week starts on Monday."`
	Category string `json:"category" binding:"required,max=50" example:"Sports"`
	Link     string `json:"link" binding:"omitempty,url,max=255" example:"https://example.com/notice.pdf"`
}

// NoticeResponse is a notice as returned by the API
type NoticeResponse struct {
	ID        int64     `json:"id" example:"12"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AcademicYearResponse is an academic year as returned by the API
type AcademicYearResponse struct {
	ID        int64  `json:"id" example:"3"`
	Name      string `json:"name" example:"2081"`
	StartDate string `json:"startDate" example:"2024-04-13"`
	IsCurrent bool   `json:"isCurrent" example:"true"`
}
