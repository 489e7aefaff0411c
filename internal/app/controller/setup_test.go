package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	"github.com/ikkim/daily-report-backend/internal/app/service"
	"github.com/ikkim/daily-report-backend/internal/db"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/ikkim/daily-report-backend/internal/middleware"
	"github.com/ikkim/daily-report-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSecret   = "test-secret"
	testPassword = "password123"
)

type controllerFixture struct {
	router *gin.Engine
	db     *gorm.DB

	alice, carol, dave, eve *model.SalesPerson
	acme, gone              *model.Customer
}

// setupControllerTest wires every controller behind the auth middleware the
// same way the production router does. alice is a member managed by carol;
// dave manages nobody; eve is an admin.
func setupControllerTest(t *testing.T) *controllerFixture {
	gin.SetMode(gin.TestMode)
	apperrors.RegisterValidator()

	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	f := &controllerFixture{db: testDB}
	f.carol = seedPerson(t, testDB, "E003", "Carol Kim", model.RoleManager, nil, "")
	f.dave = seedPerson(t, testDB, "E004", "Dave Park", model.RoleManager, nil, "")
	f.alice = seedPerson(t, testDB, "E001", "Alice Lee", model.RoleMember, &f.carol.ID, testPassword)
	f.eve = seedPerson(t, testDB, "E005", "Eve Han", model.RoleAdmin, nil, "")

	f.acme = &model.Customer{CustomerCode: "C001", Name: "Acme Trading", IsActive: true}
	require.NoError(t, testDB.Create(f.acme).Error)
	f.gone = &model.Customer{CustomerCode: "C003", Name: "Gamma Closed", IsActive: true}
	require.NoError(t, testDB.Create(f.gone).Error)
	require.NoError(t, testDB.Model(f.gone).Update("is_active", false).Error)

	salesPersonRepo := repository.NewSalesPersonRepository(testDB)
	reportRepo := repository.NewReportRepository(testDB)
	authz := service.NewAuthorizationService(salesPersonRepo)

	authCtrl := NewAuthController(service.NewAuthService(salesPersonRepo, nil, testSecret, 15*time.Minute, time.Hour))
	reportCtrl := NewReportController(
		service.NewReportService(reportRepo, authz, repository.NewUnitOfWork(testDB)),
		service.NewReportAuditService(reportRepo, authz),
	)
	commentCtrl := NewCommentController(service.NewCommentService(reportRepo, repository.NewCommentRepository(testDB), authz))
	customerCtrl := NewCustomerController(service.NewCustomerService(repository.NewCustomerRepository(testDB)))
	salesPersonCtrl := NewSalesPersonController(service.NewSalesPersonService(salesPersonRepo, authz))

	authMiddleware := middleware.NewAuthMiddleware(testSecret, nil)
	authenticated := authMiddleware.Authenticate()
	adminOnly := authMiddleware.RequireRole(model.RoleAdmin)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())

	auth := router.Group("/auth")
	auth.POST("/login", authCtrl.Login)
	auth.POST("/refresh", authCtrl.RefreshToken)
	auth.POST("/logout", authenticated, authCtrl.Logout)
	auth.GET("/me", authenticated, authCtrl.GetMe)

	reports := router.Group("/reports", authenticated)
	reports.GET("", reportCtrl.ListReports)
	reports.POST("", reportCtrl.CreateReport)
	reports.GET("/missing", authMiddleware.RequireRole(model.RoleManager, model.RoleAdmin), reportCtrl.ListMissingReports)
	reports.GET("/:id", reportCtrl.GetReport)
	reports.PUT("/:id", reportCtrl.UpdateReport)
	reports.DELETE("/:id", reportCtrl.DeleteReport)
	reports.GET("/:id/comments", commentCtrl.ListComments)
	reports.POST("/:id/comments", commentCtrl.CreateComment)

	comments := router.Group("/comments", authenticated)
	comments.PUT("/:id", commentCtrl.UpdateComment)
	comments.DELETE("/:id", commentCtrl.DeleteComment)

	customers := router.Group("/customers", authenticated)
	customers.GET("", customerCtrl.ListCustomers)
	customers.GET("/:id", customerCtrl.GetCustomer)
	customers.POST("", adminOnly, customerCtrl.CreateCustomer)
	customers.PUT("/:id", adminOnly, customerCtrl.UpdateCustomer)
	customers.DELETE("/:id", adminOnly, customerCtrl.DeleteCustomer)

	salesPersons := router.Group("/sales-persons", authenticated)
	salesPersons.GET("", salesPersonCtrl.ListSalesPersons)
	salesPersons.GET("/:id", salesPersonCtrl.GetSalesPerson)
	salesPersons.POST("", adminOnly, salesPersonCtrl.CreateSalesPerson)
	salesPersons.PUT("/:id", adminOnly, salesPersonCtrl.UpdateSalesPerson)
	salesPersons.DELETE("/:id", adminOnly, salesPersonCtrl.DeleteSalesPerson)

	f.router = router
	return f
}

// seedPerson stores a sales person. Only accounts that log in get a real
// bcrypt hash.
func seedPerson(t *testing.T, conn *gorm.DB, code, name string, role model.Role, managerID *uint, password string) *model.SalesPerson {
	hash := "not-a-real-hash"
	if password != "" {
		var err error
		hash, err = util.HashPassword(password)
		require.NoError(t, err)
	}

	person := &model.SalesPerson{
		EmployeeCode: code,
		Name:         name,
		Email:        strings.ToLower(code) + "@example.com",
		PasswordHash: hash,
		Role:         role,
		ManagerID:    managerID,
		IsActive:     true,
	}
	require.NoError(t, conn.Omit("Manager").Create(person).Error)
	return person
}

func tokenFor(t *testing.T, p *model.SalesPerson) string {
	pair, err := util.GenerateTokenPair(p.ID, p.Email, string(p.Role), testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return pair.AccessToken
}

// do sends a request as the given sales person (nil for anonymous) and
// decodes the JSON response body.
func (f *controllerFixture) do(t *testing.T, method, path string, as *model.SalesPerson, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, as))
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// createReport files a report for alice and returns its id.
func (f *controllerFixture) createReport(t *testing.T, date string) uint {
	w, resp := f.do(t, http.MethodPost, "/reports", f.alice, map[string]interface{}{
		"report_date": date,
		"visit_records": []map[string]interface{}{
			{"customer_id": f.acme.ID, "content": "quarterly review"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	report := resp["report"].(map[string]interface{})
	return uint(report["id"].(float64))
}
