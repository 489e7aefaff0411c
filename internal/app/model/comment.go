package model

import "time"

const CommentMaxLength = 1000

// Comment is a reviewer's note on a report. Only its author may change it.
type Comment struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	DailyReportID uint      `gorm:"not null;index" json:"daily_report_id"`
	CommenterID   uint      `gorm:"not null;index" json:"commenter_id"`
	Content       string    `gorm:"type:varchar(1000);not null" json:"content"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Commenter SalesPerson `gorm:"foreignKey:CommenterID;constraint:OnDelete:RESTRICT" json:"commenter"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentRequest is used for both create and update; content is trimmed
// before length checks.
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentResponse struct {
	ID            uint      `json:"id"`
	DailyReportID uint      `json:"daily_report_id"`
	CommenterID   uint      `json:"commenter_id"`
	CommenterName string    `json:"commenter_name"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *Comment) ToResponse() CommentResponse {
	return CommentResponse{
		ID:            c.ID,
		DailyReportID: c.DailyReportID,
		CommenterID:   c.CommenterID,
		CommenterName: c.Commenter.Name,
		Content:       c.Content,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
