package model

import (
	"time"
)

type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusSubmitted ReportStatus = "submitted"
	ReportStatusReviewed  ReportStatus = "reviewed"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusDraft, ReportStatusSubmitted, ReportStatusReviewed:
		return true
	}
	return false
}

// DailyReport is one sales person's report for one calendar day.
// Deleting it removes its visit records and comments.
type DailyReport struct {
	ID            uint         `gorm:"primarykey" json:"id"`
	SalesPersonID uint         `gorm:"not null;uniqueIndex:idx_daily_reports_owner_date,priority:1" json:"sales_person_id"`
	ReportDate    time.Time    `gorm:"type:date;not null;uniqueIndex:idx_daily_reports_owner_date,priority:2;index" json:"report_date"`
	Problem       *string      `gorm:"type:text" json:"problem"`
	Plan          *string      `gorm:"type:text" json:"plan"`
	Status        ReportStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	SalesPerson  SalesPerson   `gorm:"foreignKey:SalesPersonID;constraint:OnDelete:RESTRICT" json:"sales_person"`
	VisitRecords []VisitRecord `gorm:"foreignKey:DailyReportID;constraint:OnDelete:CASCADE" json:"visit_records,omitempty"`
	Comments     []Comment     `gorm:"foreignKey:DailyReportID;constraint:OnDelete:CASCADE" json:"-"`
}

func (DailyReport) TableName() string {
	return "daily_reports"
}

type VisitRecord struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	DailyReportID uint      `gorm:"not null;index" json:"daily_report_id"`
	CustomerID    uint      `gorm:"not null;index" json:"customer_id"`
	VisitTime     *string   `gorm:"type:varchar(5)" json:"visit_time"` // HH:MM
	Content       string    `gorm:"type:text;not null" json:"content"`
	SortOrder     int       `gorm:"not null" json:"sort_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Customer Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"customer"`
}

func (VisitRecord) TableName() string {
	return "visit_records"
}

// VisitRecordInput is one submitted visit row. A nil ID asks for a new row.
type VisitRecordInput struct {
	ID         *uint   `json:"id"`
	CustomerID uint    `json:"customer_id" binding:"required"`
	VisitTime  *string `json:"visit_time" binding:"omitempty,datetime=15:04"`
	Content    string  `json:"content" binding:"required"`
}

type CreateReportRequest struct {
	ReportDate   string             `json:"report_date" binding:"required,datetime=2006-01-02"`
	Problem      *string            `json:"problem"`
	Plan         *string            `json:"plan"`
	Status       *ReportStatus      `json:"status" binding:"omitempty,oneof=draft submitted reviewed"`
	VisitRecords []VisitRecordInput `json:"visit_records" binding:"required,min=1,dive"`
}

// UpdateReportRequest is partial. A nil VisitRecords leaves the visit set
// untouched; a non-nil one replaces it.
type UpdateReportRequest struct {
	ReportDate   *string            `json:"report_date" binding:"omitempty,datetime=2006-01-02"`
	Problem      *string            `json:"problem"`
	Plan         *string            `json:"plan"`
	Status       *ReportStatus      `json:"status" binding:"omitempty,oneof=draft submitted reviewed"`
	VisitRecords []VisitRecordInput `json:"visit_records" binding:"omitempty,dive"`
}

type ReportListQuery struct {
	Page          *int          `form:"page"`
	PerPage       *int          `form:"per_page"`
	StartDate     *string       `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate       *string       `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Status        *ReportStatus `form:"status" binding:"omitempty,oneof=draft submitted reviewed"`
	SalesPersonID *uint         `form:"sales_person_id"`
	CustomerID    *uint         `form:"customer_id"`
	Keyword       string        `form:"keyword"`
}

type VisitRecordResponse struct {
	ID           uint    `json:"id"`
	CustomerID   uint    `json:"customer_id"`
	CustomerCode string  `json:"customer_code"`
	CustomerName string  `json:"customer_name"`
	VisitTime    *string `json:"visit_time"`
	Content      string  `json:"content"`
	SortOrder    int     `json:"sort_order"`
}

type DailyReportResponse struct {
	ID              uint                  `json:"id"`
	SalesPersonID   uint                  `json:"sales_person_id"`
	SalesPersonName string                `json:"sales_person_name"`
	ReportDate      string                `json:"report_date"`
	Problem         *string               `json:"problem"`
	Plan            *string               `json:"plan"`
	Status          ReportStatus          `json:"status"`
	VisitRecords    []VisitRecordResponse `json:"visit_records"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ToResponse flattens a report with its preloaded owner and visits.
func (r *DailyReport) ToResponse() DailyReportResponse {
	visits := make([]VisitRecordResponse, 0, len(r.VisitRecords))
	for _, v := range r.VisitRecords {
		visits = append(visits, VisitRecordResponse{
			ID:           v.ID,
			CustomerID:   v.CustomerID,
			CustomerCode: v.Customer.CustomerCode,
			CustomerName: v.Customer.Name,
			VisitTime:    v.VisitTime,
			Content:      v.Content,
			SortOrder:    v.SortOrder,
		})
	}

	return DailyReportResponse{
		ID:              r.ID,
		SalesPersonID:   r.SalesPersonID,
		SalesPersonName: r.SalesPerson.Name,
		ReportDate:      r.ReportDate.Format("2006-01-02"),
		Problem:         r.Problem,
		Plan:            r.Plan,
		Status:          r.Status,
		VisitRecords:    visits,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
