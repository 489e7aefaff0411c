package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		perPage   int
		total     int64
		wantPages int
	}{
		{"empty result has zero pages", 1, 20, 0, 0},
		{"partial last page rounds up", 1, 20, 45, 3},
		{"exact multiple", 1, 10, 30, 3},
		{"single row", 1, 100, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.perPage, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.total, p.TotalCount)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 20))
	assert.Equal(t, 10, Offset(2, 10))
	assert.Equal(t, 200, Offset(3, 100))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleMember.Valid())
	assert.True(t, RoleManager.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("owner").Valid())
	assert.False(t, ReportStatus("archived").Valid())
	assert.True(t, ReportStatusReviewed.Valid())
}

func TestDailyReport_ToResponse(t *testing.T) {
	visitTime := "09:30"
	report := DailyReport{
		ID:            5,
		SalesPersonID: 1,
		ReportDate:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local),
		Status:        ReportStatusDraft,
		SalesPerson:   SalesPerson{ID: 1, Name: "Sato"},
		VisitRecords: []VisitRecord{
			{ID: 10, CustomerID: 2, VisitTime: &visitTime, Content: "A", SortOrder: 0, Customer: Customer{CustomerCode: "C002", Name: "Acme"}},
		},
	}

	resp := report.ToResponse()
	assert.Equal(t, "2025-01-15", resp.ReportDate)
	assert.Equal(t, "Sato", resp.SalesPersonName)
	assert.Len(t, resp.VisitRecords, 1)
	assert.Equal(t, "Acme", resp.VisitRecords[0].CustomerName)
	assert.Equal(t, "09:30", *resp.VisitRecords[0].VisitTime)
}
