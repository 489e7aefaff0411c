package model

// FiledReportStatuses are the statuses that count as a filed report. Drafts
// are still missing.
var FiledReportStatuses = []ReportStatus{ReportStatusSubmitted, ReportStatusReviewed}

type MissingReportQuery struct {
	Date *string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

type MissingReporter struct {
	SalesPersonID uint   `json:"sales_person_id"`
	EmployeeCode  string `json:"employee_code"`
	Name          string `json:"name"`
	ManagerID     *uint  `json:"manager_id"`
}

// MissingReportSummary lists the members who have not filed a report for
// ReportDate.
type MissingReportSummary struct {
	ReportDate string            `json:"report_date"`
	Missing    []MissingReporter `json:"missing"`
}
