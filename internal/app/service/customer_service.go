package service

import (
	"context"
	"strings"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/ikkim/daily-report-backend/pkg/logger"
)

// CustomerService manages the customer master. Reads are open to any
// authenticated actor; writes are admin-only.
type CustomerService interface {
	ListCustomers(ctx context.Context, actor Actor, query *model.CustomerListQuery) ([]model.Customer, model.Pagination, error)
	GetCustomer(ctx context.Context, actor Actor, id uint) (*model.Customer, error)
	CreateCustomer(ctx context.Context, actor Actor, req *model.CreateCustomerRequest) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, actor Actor, id uint, req *model.UpdateCustomerRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, actor Actor, id uint) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) ListCustomers(ctx context.Context, actor Actor, query *model.CustomerListQuery) ([]model.Customer, model.Pagination, error) {
	page, err := resolvePage(query.Page, query.PerPage)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	customers, total, err := s.customerRepo.List(ctx, repository.CustomerFilter{
		Keyword:  strings.TrimSpace(query.Keyword),
		IsActive: query.IsActive,
		Offset:   page.Offset(),
		Limit:    page.PerPage,
	})
	if err != nil {
		return nil, model.Pagination{}, classify("list customers", "customer", err, logger.Fields{"actor_id": actor.ID})
	}
	if customers == nil {
		customers = []model.Customer{}
	}
	return customers, page.Pagination(total), nil
}

func (s *customerService) GetCustomer(ctx context.Context, actor Actor, id uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("find customer", "customer", err, logger.Fields{"customer_id": id})
	}
	return customer, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, actor Actor, req *model.CreateCustomerRequest) (*model.Customer, error) {
	if err := requireAdmin(actor, "create customers"); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.CustomerCode)
	exists, err := s.customerRepo.ExistsByCode(ctx, code, 0)
	if err != nil {
		return nil, classify("check customer code", "customer", err, logger.Fields{"customer_code": code})
	}
	if exists {
		return nil, apperrors.Conflict(apperrors.CustomerCodeExists, "customer code is already in use")
	}

	customer := &model.Customer{
		CustomerCode: code,
		Name:         strings.TrimSpace(req.Name),
		Address:      optionalText(req.Address),
		Phone:        optionalText(req.Phone),
		IsActive:     true,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, classify("create customer", "customer", err, logger.Fields{"customer_code": code})
	}

	logger.Info("Customer created", logger.Fields{
		"customer_id":   customer.ID,
		"customer_code": customer.CustomerCode,
		"actor_id":      actor.ID,
	})
	return customer, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, actor Actor, id uint, req *model.UpdateCustomerRequest) (*model.Customer, error) {
	if err := requireAdmin(actor, "update customers"); err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return nil, classify("find customer", "customer", err, logger.Fields{"customer_id": id})
	}

	updates := map[string]interface{}{}
	if req.CustomerCode != nil {
		code := strings.TrimSpace(*req.CustomerCode)
		exists, err := s.customerRepo.ExistsByCode(ctx, code, id)
		if err != nil {
			return nil, classify("check customer code", "customer", err, logger.Fields{"customer_code": code})
		}
		if exists {
			return nil, apperrors.Conflict(apperrors.CustomerCodeExists, "customer code is already in use")
		}
		updates["customer_code"] = code
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation(apperrors.ValidationRequired, "name is required")
		}
		updates["name"] = name
	}
	if req.Address != nil {
		updates["address"] = optionalText(req.Address)
	}
	if req.Phone != nil {
		updates["phone"] = optionalText(req.Phone)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.customerRepo.Update(ctx, id, updates); err != nil {
			return nil, classify("update customer", "customer", err, logger.Fields{"customer_id": id})
		}
		logger.Info("Customer updated", logger.Fields{
			"customer_id": id,
			"actor_id":    actor.ID,
			"fields":      len(updates),
		})
	}

	return s.GetCustomer(ctx, actor, id)
}

// DeleteCustomer deactivates the customer. Visit records keep pointing at it.
func (s *customerService) DeleteCustomer(ctx context.Context, actor Actor, id uint) error {
	if err := requireAdmin(actor, "delete customers"); err != nil {
		return err
	}

	if err := s.customerRepo.Update(ctx, id, map[string]interface{}{"is_active": false}); err != nil {
		return classify("deactivate customer", "customer", err, logger.Fields{"customer_id": id})
	}

	logger.Info("Customer deactivated", logger.Fields{
		"customer_id": id,
		"actor_id":    actor.ID,
	})
	return nil
}

func requireAdmin(actor Actor, action string) error {
	if actor.Role == model.RoleAdmin {
		return nil
	}
	logger.Warn("Admin-only action denied", logger.Fields{
		"actor_id": actor.ID,
		"role":     actor.Role,
		"action":   action,
	})
	return apperrors.Forbidden(apperrors.AuthzAdminOnly, "only admins can "+action)
}
