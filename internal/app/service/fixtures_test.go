package service

import (
	"context"
	"strings"
	"testing"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	"github.com/ikkim/daily-report-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// serviceFixture is a small organisation:
//
//	1 alice  member  -> manager 3
//	2 bob    member  -> manager 4
//	3 carol  manager
//	4 dave   manager
//	5 eve    admin
//
// plus customers 1 and 2 (active) and 3 (inactive).
type serviceFixture struct {
	db *gorm.DB

	alice, bob, carol, dave, eve *model.SalesPerson
	acme, beta, gone             *model.Customer
}

func setupServiceFixture(t *testing.T) *serviceFixture {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	f := &serviceFixture{db: testDB}
	f.carol = seedSalesPerson(t, testDB, 3, "E003", "Carol Kim", model.RoleManager, nil)
	f.dave = seedSalesPerson(t, testDB, 4, "E004", "Dave Park", model.RoleManager, nil)
	f.alice = seedSalesPerson(t, testDB, 1, "E001", "Alice Lee", model.RoleMember, &f.carol.ID)
	f.bob = seedSalesPerson(t, testDB, 2, "E002", "Bob Choi", model.RoleMember, &f.dave.ID)
	f.eve = seedSalesPerson(t, testDB, 5, "E005", "Eve Han", model.RoleAdmin, nil)

	f.acme = seedCustomer(t, testDB, 1, "C001", "Acme Trading", true)
	f.beta = seedCustomer(t, testDB, 2, "C002", "Beta Foods", true)
	f.gone = seedCustomer(t, testDB, 3, "C003", "Gamma Closed", false)

	return f
}

func seedSalesPerson(t *testing.T, conn *gorm.DB, id uint, code, name string, role model.Role, managerID *uint) *model.SalesPerson {
	person := &model.SalesPerson{
		ID:           id,
		EmployeeCode: code,
		Name:         name,
		Email:        strings.ToLower(code) + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		ManagerID:    managerID,
		IsActive:     true,
	}
	require.NoError(t, conn.Omit("Manager").Create(person).Error)
	return person
}

func seedCustomer(t *testing.T, conn *gorm.DB, id uint, code, name string, active bool) *model.Customer {
	customer := &model.Customer{ID: id, CustomerCode: code, Name: name, IsActive: true}
	require.NoError(t, conn.Create(customer).Error)
	if !active {
		require.NoError(t, conn.Model(customer).Update("is_active", false).Error)
		customer.IsActive = false
	}
	return customer
}

func actorOf(p *model.SalesPerson) Actor {
	return Actor{ID: p.ID, Role: p.Role}
}

func (f *serviceFixture) authz() AuthorizationService {
	return NewAuthorizationService(repository.NewSalesPersonRepository(f.db))
}

func (f *serviceFixture) reportService() ReportService {
	return NewReportService(
		repository.NewReportRepository(f.db),
		f.authz(),
		repository.NewUnitOfWork(f.db),
	)
}

func (f *serviceFixture) commentService() CommentService {
	return NewCommentService(
		repository.NewReportRepository(f.db),
		repository.NewCommentRepository(f.db),
		f.authz(),
	)
}

// createReport files a report for owner on date with one visit per customer.
func (f *serviceFixture) createReport(t *testing.T, owner *model.SalesPerson, date string, customerIDs ...uint) *model.DailyReportResponse {
	visits := make([]model.VisitRecordInput, 0, len(customerIDs))
	for _, id := range customerIDs {
		visits = append(visits, model.VisitRecordInput{CustomerID: id, Content: "visit"})
	}
	report, err := f.reportService().CreateReport(context.Background(), actorOf(owner), &model.CreateReportRequest{
		ReportDate:   date,
		VisitRecords: visits,
	})
	require.NoError(t, err)
	return report
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func uintPtr(u uint) *uint { return &u }
