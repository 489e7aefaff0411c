package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/ikkim/daily-report-backend/pkg/logger"
	"github.com/ikkim/daily-report-backend/pkg/util"
	"gorm.io/gorm"
)

// SalesPersonService manages sales person accounts. Listing follows the same
// visibility as reports; writes are admin-only.
type SalesPersonService interface {
	ListSalesPersons(ctx context.Context, actor Actor, query *model.SalesPersonListQuery) ([]model.SalesPerson, model.Pagination, error)
	GetSalesPerson(ctx context.Context, actor Actor, id uint) (*model.SalesPerson, error)
	CreateSalesPerson(ctx context.Context, actor Actor, req *model.CreateSalesPersonRequest) (*model.SalesPerson, error)
	UpdateSalesPerson(ctx context.Context, actor Actor, id uint, req *model.UpdateSalesPersonRequest) (*model.SalesPerson, error)
	DeleteSalesPerson(ctx context.Context, actor Actor, id uint) error
}

type salesPersonService struct {
	salesPersonRepo repository.SalesPersonRepository
	authz           AuthorizationService
}

func NewSalesPersonService(
	salesPersonRepo repository.SalesPersonRepository,
	authz AuthorizationService,
) SalesPersonService {
	return &salesPersonService{
		salesPersonRepo: salesPersonRepo,
		authz:           authz,
	}
}

func (s *salesPersonService) ListSalesPersons(ctx context.Context, actor Actor, query *model.SalesPersonListQuery) ([]model.SalesPerson, model.Pagination, error) {
	page, err := resolvePage(query.Page, query.PerPage)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	if query.Role != nil && !query.Role.Valid() {
		return nil, model.Pagination{}, invalidRole()
	}

	scope, err := s.authz.ResolveReportScope(ctx, actor)
	if err != nil {
		return nil, model.Pagination{}, classify("resolve sales person scope", "sales person", err, logger.Fields{"actor_id": actor.ID})
	}

	filter := repository.SalesPersonFilter{
		Keyword:  strings.TrimSpace(query.Keyword),
		Role:     query.Role,
		IsActive: query.IsActive,
		Offset:   page.Offset(),
		Limit:    page.PerPage,
	}
	if !scope.Unrestricted {
		filter.ScopeIDs = scope.OwnerIDs
	}

	persons, total, err := s.salesPersonRepo.List(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, classify("list sales persons", "sales person", err, logger.Fields{"actor_id": actor.ID})
	}
	if persons == nil {
		persons = []model.SalesPerson{}
	}
	return persons, page.Pagination(total), nil
}

func (s *salesPersonService) GetSalesPerson(ctx context.Context, actor Actor, id uint) (*model.SalesPerson, error) {
	person, err := s.salesPersonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("find sales person", "sales person", err, logger.Fields{"sales_person_id": id})
	}

	allowed, err := s.authz.CanViewReport(ctx, actor, person.ID)
	if err != nil {
		return nil, classify("authorize sales person view", "sales person", err, logger.Fields{"sales_person_id": id})
	}
	if !allowed {
		return nil, apperrors.Forbidden(apperrors.AuthzForbidden, "you are not allowed to view this sales person")
	}
	return person, nil
}

func (s *salesPersonService) CreateSalesPerson(ctx context.Context, actor Actor, req *model.CreateSalesPersonRequest) (*model.SalesPerson, error) {
	if err := requireAdmin(actor, "create sales persons"); err != nil {
		return nil, err
	}
	if !req.Role.Valid() {
		return nil, invalidRole()
	}

	code := strings.TrimSpace(req.EmployeeCode)
	email := normalizeEmail(req.Email)
	if err := s.ensureUnique(ctx, code, email, 0); err != nil {
		return nil, err
	}
	if req.ManagerID != nil {
		if err := s.ensureManager(ctx, *req.ManagerID, 0); err != nil {
			return nil, err
		}
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, util.ErrPasswordTooLong) {
			return nil, apperrors.Validation(apperrors.ValidationInvalidRange, "password must be at most 72 bytes")
		}
		return nil, classify("hash password", "sales person", err, logger.Fields{"employee_code": code})
	}

	person := &model.SalesPerson{
		EmployeeCode: code,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		ManagerID:    req.ManagerID,
		IsActive:     true,
	}
	if err := s.salesPersonRepo.Create(ctx, person); err != nil {
		return nil, classify("create sales person", "sales person", err, logger.Fields{"employee_code": code})
	}

	logger.Info("Sales person created", logger.Fields{
		"sales_person_id": person.ID,
		"employee_code":   person.EmployeeCode,
		"role":            person.Role,
		"actor_id":        actor.ID,
	})
	return s.salesPersonRepo.FindByID(ctx, person.ID)
}

func (s *salesPersonService) UpdateSalesPerson(ctx context.Context, actor Actor, id uint, req *model.UpdateSalesPersonRequest) (*model.SalesPerson, error) {
	if err := requireAdmin(actor, "update sales persons"); err != nil {
		return nil, err
	}

	person, err := s.salesPersonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("find sales person", "sales person", err, logger.Fields{"sales_person_id": id})
	}

	updates := map[string]interface{}{}

	code, email := "", ""
	if req.EmployeeCode != nil {
		code = strings.TrimSpace(*req.EmployeeCode)
		updates["employee_code"] = code
	}
	if req.Email != nil {
		email = normalizeEmail(*req.Email)
		updates["email"] = email
	}
	if err := s.ensureUnique(ctx, code, email, id); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation(apperrors.ValidationRequired, "name is required")
		}
		updates["name"] = name
	}

	if req.Role != nil && *req.Role != person.Role {
		if !req.Role.Valid() {
			return nil, invalidRole()
		}
		if id == actor.ID {
			return nil, apperrors.Validation(apperrors.ValidationInvalidInput, "you cannot change your own role")
		}
		if person.Role == model.RoleManager {
			subordinates, err := s.salesPersonRepo.FindSubordinateIDs(ctx, id)
			if err != nil {
				return nil, classify("find subordinates", "sales person", err, logger.Fields{"sales_person_id": id})
			}
			if len(subordinates) > 0 {
				return nil, apperrors.Validation(apperrors.SalesPersonInvalidManager,
					"reassign this manager's subordinates before changing the role")
			}
		}
		updates["role"] = *req.Role
	}

	switch {
	case req.ClearManager:
		updates["manager_id"] = nil
	case req.ManagerID != nil:
		if err := s.ensureManager(ctx, *req.ManagerID, id); err != nil {
			return nil, err
		}
		updates["manager_id"] = *req.ManagerID
	}

	if req.Password != nil {
		hash, err := util.HashPassword(*req.Password)
		if err != nil {
			if errors.Is(err, util.ErrPasswordTooLong) {
				return nil, apperrors.Validation(apperrors.ValidationInvalidRange, "password must be at most 72 bytes")
			}
			return nil, classify("hash password", "sales person", err, logger.Fields{"sales_person_id": id})
		}
		updates["password_hash"] = hash
	}

	if req.IsActive != nil {
		if !*req.IsActive && id == actor.ID {
			return nil, apperrors.Validation(apperrors.ValidationInvalidInput, "you cannot deactivate your own account")
		}
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.salesPersonRepo.Update(ctx, id, updates); err != nil {
			return nil, classify("update sales person", "sales person", err, logger.Fields{"sales_person_id": id})
		}
		logger.Info("Sales person updated", logger.Fields{
			"sales_person_id": id,
			"actor_id":        actor.ID,
			"fields":          len(updates),
		})
	}

	updated, err := s.salesPersonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("reload sales person", "sales person", err, logger.Fields{"sales_person_id": id})
	}
	return updated, nil
}

// DeleteSalesPerson deactivates the account. Reports and comments stay.
func (s *salesPersonService) DeleteSalesPerson(ctx context.Context, actor Actor, id uint) error {
	if err := requireAdmin(actor, "delete sales persons"); err != nil {
		return err
	}
	if id == actor.ID {
		return apperrors.Validation(apperrors.ValidationInvalidInput, "you cannot deactivate your own account")
	}

	if err := s.salesPersonRepo.Update(ctx, id, map[string]interface{}{"is_active": false}); err != nil {
		return classify("deactivate sales person", "sales person", err, logger.Fields{"sales_person_id": id})
	}

	logger.Info("Sales person deactivated", logger.Fields{
		"sales_person_id": id,
		"actor_id":        actor.ID,
	})
	return nil
}

// ensureUnique checks employee code and email; empty values are skipped.
func (s *salesPersonService) ensureUnique(ctx context.Context, code, email string, excludeID uint) error {
	if code != "" {
		exists, err := s.salesPersonRepo.ExistsByEmployeeCode(ctx, code, excludeID)
		if err != nil {
			return classify("check employee code", "sales person", err, logger.Fields{"employee_code": code})
		}
		if exists {
			return apperrors.Conflict(apperrors.SalesPersonCodeExists, "employee code is already in use")
		}
	}
	if email != "" {
		exists, err := s.salesPersonRepo.ExistsByEmail(ctx, email, excludeID)
		if err != nil {
			return classify("check email", "sales person", err, logger.Fields{"email": email})
		}
		if exists {
			return apperrors.Conflict(apperrors.SalesPersonEmailExists, "email is already in use")
		}
	}
	return nil
}

// ensureManager requires managerID to be an active manager other than selfID.
func (s *salesPersonService) ensureManager(ctx context.Context, managerID, selfID uint) error {
	if managerID == selfID {
		return apperrors.Validation(apperrors.SalesPersonInvalidManager, "a sales person cannot be their own manager")
	}

	manager, err := s.salesPersonRepo.FindByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Validation(apperrors.SalesPersonInvalidManager, "manager_id does not reference an existing sales person")
		}
		return classify("find manager", "sales person", err, logger.Fields{"manager_id": managerID})
	}
	if manager.Role != model.RoleManager || !manager.IsActive {
		return apperrors.Validation(apperrors.SalesPersonInvalidManager, "manager_id must reference an active manager")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidRole() error {
	return apperrors.Validation(apperrors.ValidationInvalidInput, "role must be one of: member manager admin")
}
