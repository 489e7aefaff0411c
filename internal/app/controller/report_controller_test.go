package controller

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportController_CreateReport(t *testing.T) {
	f := setupControllerTest(t)

	w, resp := f.do(t, http.MethodPost, "/reports", f.alice, map[string]interface{}{
		"report_date": "2024-03-01",
		"problem":     "late delivery",
		"visit_records": []map[string]interface{}{
			{"customer_id": f.acme.ID, "visit_time": "09:30", "content": "first"},
			{"customer_id": f.acme.ID, "content": "second"},
		},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	report := resp["report"].(map[string]interface{})
	assert.Equal(t, "2024-03-01", report["report_date"])
	assert.Equal(t, "draft", report["status"])
	assert.Equal(t, "Alice Lee", report["sales_person_name"])

	visits := report["visit_records"].([]interface{})
	require.Len(t, visits, 2)
	first := visits[0].(map[string]interface{})
	assert.Equal(t, "first", first["content"])
	assert.Equal(t, "09:30", first["visit_time"])
	assert.Equal(t, float64(0), first["sort_order"])
	assert.Equal(t, "Acme Trading", first["customer_name"])
	assert.Nil(t, visits[1].(map[string]interface{})["visit_time"])
}

func TestReportController_CreateReport_Rejections(t *testing.T) {
	f := setupControllerTest(t)
	f.createReport(t, "2024-03-01")

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
		code   string
	}{
		{
			name:   "missing visits",
			body:   map[string]interface{}{"report_date": "2024-03-02"},
			status: http.StatusBadRequest,
			code:   apperrors.ValidationRequired,
		},
		{
			name: "bad date",
			body: map[string]interface{}{
				"report_date":   "03/02/2024",
				"visit_records": []map[string]interface{}{{"customer_id": f.acme.ID, "content": "x"}},
			},
			status: http.StatusBadRequest,
			code:   apperrors.ValidationInvalidInput,
		},
		{
			name: "inactive customer",
			body: map[string]interface{}{
				"report_date":   "2024-03-02",
				"visit_records": []map[string]interface{}{{"customer_id": f.gone.ID, "content": "x"}},
			},
			status: http.StatusBadRequest,
			code:   apperrors.ReportInactiveCustomer,
		},
		{
			name: "duplicate date",
			body: map[string]interface{}{
				"report_date":   "2024-03-01",
				"visit_records": []map[string]interface{}{{"customer_id": f.acme.ID, "content": "x"}},
			},
			status: http.StatusConflict,
			code:   apperrors.ReportAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := f.do(t, http.MethodPost, "/reports", f.alice, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, resp["error"])
			assert.NotEmpty(t, resp["message"])
		})
	}
}

func TestReportController_GetReport(t *testing.T) {
	f := setupControllerTest(t)
	id := f.createReport(t, "2024-03-01")
	path := fmt.Sprintf("/reports/%d", id)

	t.Run("owner", func(t *testing.T) {
		w, _ := f.do(t, http.MethodGet, path, f.alice, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("direct manager", func(t *testing.T) {
		w, _ := f.do(t, http.MethodGet, path, f.carol, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin", func(t *testing.T) {
		w, _ := f.do(t, http.MethodGet, path, f.eve, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unrelated manager", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, path, f.dave, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, apperrors.AuthzForbidden, resp["error"])
	})

	t.Run("missing report", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/reports/9999", f.eve, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.ReportNotFound, resp["error"])
	})

	t.Run("malformed id", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/reports/abc", f.alice, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidID, resp["error"])
	})

	t.Run("anonymous", func(t *testing.T) {
		w, _ := f.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestReportController_UpdateReport(t *testing.T) {
	f := setupControllerTest(t)
	id := f.createReport(t, "2024-03-01")
	path := fmt.Sprintf("/reports/%d", id)

	t.Run("owner updates status and plan", func(t *testing.T) {
		w, resp := f.do(t, http.MethodPut, path, f.alice, map[string]interface{}{
			"status": "submitted",
			"plan":   "follow up next week",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		report := resp["report"].(map[string]interface{})
		assert.Equal(t, "submitted", report["status"])
		assert.Equal(t, "follow up next week", report["plan"])
		assert.Len(t, report["visit_records"], 1)
	})

	t.Run("manager cannot edit", func(t *testing.T) {
		w, resp := f.do(t, http.MethodPut, path, f.carol, map[string]interface{}{"status": "reviewed"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, apperrors.AuthzOwnerOnly, resp["error"])
	})

	t.Run("invalid status", func(t *testing.T) {
		w, resp := f.do(t, http.MethodPut, path, f.alice, map[string]interface{}{"status": "archived"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidInput, resp["error"])
	})
}

func TestReportController_ListReports(t *testing.T) {
	f := setupControllerTest(t)
	f.createReport(t, "2024-03-01")
	f.createReport(t, "2024-03-02")
	f.createReport(t, "2024-03-03")

	t.Run("pagination", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/reports?per_page=2", f.alice, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Len(t, resp["reports"], 2)

		page := resp["pagination"].(map[string]interface{})
		assert.Equal(t, float64(3), page["total_count"])
		assert.Equal(t, float64(2), page["total_pages"])
	})

	t.Run("date range", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/reports?start_date=2024-03-02&end_date=2024-03-02", f.carol, nil)
		require.Equal(t, http.StatusOK, w.Code)
		reports := resp["reports"].([]interface{})
		require.Len(t, reports, 1)
		assert.Equal(t, "2024-03-02", reports[0].(map[string]interface{})["report_date"])
	})

	t.Run("out of scope manager sees nothing", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/reports", f.dave, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, resp["reports"])
		page := resp["pagination"].(map[string]interface{})
		assert.Equal(t, float64(0), page["total_pages"])
	})

	t.Run("per_page over limit", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/reports?per_page=101", f.alice, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidRange, resp["error"])
	})

	t.Run("page offset overflows", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/reports?page=92233720368547759&per_page=100", f.alice, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidRange, resp["error"])
	})
}

func TestReportController_DeleteReport(t *testing.T) {
	f := setupControllerTest(t)
	id := f.createReport(t, "2024-03-01")
	path := fmt.Sprintf("/reports/%d", id)

	w, resp := f.do(t, http.MethodDelete, path, f.eve, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.AuthzOwnerOnly, resp["error"])

	w, _ = f.do(t, http.MethodDelete, path, f.alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodGet, path, f.alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportController_ListMissingReports(t *testing.T) {
	f := setupControllerTest(t)
	id := f.createReport(t, "2024-03-01")

	t.Run("draft counts as missing", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/reports/missing?date=2024-03-01", f.carol, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "2024-03-01", resp["report_date"])
		missing := resp["missing"].([]interface{})
		require.Len(t, missing, 1)
		assert.Equal(t, "E001", missing[0].(map[string]interface{})["employee_code"])
	})

	t.Run("submitted report is filed", func(t *testing.T) {
		w, _ := f.do(t, http.MethodPut, fmt.Sprintf("/reports/%d", id), f.alice, map[string]interface{}{"status": "submitted"})
		require.Equal(t, http.StatusOK, w.Code)

		w, resp := f.do(t, http.MethodGet, "/reports/missing?date=2024-03-01", f.eve, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, resp["missing"])
	})

	t.Run("members are rejected", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/reports/missing", f.alice, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, apperrors.AuthzForbidden, resp["error"])
	})

	t.Run("malformed date", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/reports/missing?date=yesterday", f.carol, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidInput, resp["error"])
	})
}
