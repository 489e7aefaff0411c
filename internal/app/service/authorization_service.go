package service

import (
	"context"
	"errors"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	"github.com/ikkim/daily-report-backend/pkg/logger"
	"gorm.io/gorm"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   uint
	Role model.Role
}

// ReportScope is the set of owners whose reports an actor may list.
// Unrestricted scopes carry no ids.
type ReportScope struct {
	Unrestricted bool
	OwnerIDs     []uint
}

// Contains reports whether ownerID falls inside the scope.
func (s ReportScope) Contains(ownerID uint) bool {
	if s.Unrestricted {
		return true
	}
	for _, id := range s.OwnerIDs {
		if id == ownerID {
			return true
		}
	}
	return false
}

// AuthorizationService decides what an actor may do with reports and
// comments. Predicates never fail on a denial; the error return is reserved
// for storage failures during the subordinate lookup.
type AuthorizationService interface {
	CanViewReport(ctx context.Context, actor Actor, ownerID uint) (bool, error)
	CanEditReport(actor Actor, ownerID uint) bool
	CanPostComment(actor Actor) bool
	CanMutateComment(actor Actor, comment *model.Comment) bool
	ResolveReportScope(ctx context.Context, actor Actor) (ReportScope, error)
}

type authorizationService struct {
	salesPersonRepo repository.SalesPersonRepository
}

func NewAuthorizationService(salesPersonRepo repository.SalesPersonRepository) AuthorizationService {
	return &authorizationService{salesPersonRepo: salesPersonRepo}
}

func (s *authorizationService) CanViewReport(ctx context.Context, actor Actor, ownerID uint) (bool, error) {
	if actor.ID == ownerID {
		return true, nil
	}

	switch actor.Role {
	case model.RoleAdmin:
		return true, nil
	case model.RoleManager:
		managerID, err := s.salesPersonRepo.FindManagerID(ctx, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		return managerID != nil && *managerID == actor.ID, nil
	case model.RoleMember:
		return false, nil
	default:
		logger.Warn("Unknown role in authorization check", logger.Fields{
			"actor_id": actor.ID,
			"role":     actor.Role,
		})
		return false, nil
	}
}

// CanEditReport is self-only for every role.
func (s *authorizationService) CanEditReport(actor Actor, ownerID uint) bool {
	return actor.ID == ownerID
}

func (s *authorizationService) CanPostComment(actor Actor) bool {
	switch actor.Role {
	case model.RoleManager, model.RoleAdmin:
		return true
	case model.RoleMember:
		return false
	default:
		return false
	}
}

// CanMutateComment is author-only, independent of role.
func (s *authorizationService) CanMutateComment(actor Actor, comment *model.Comment) bool {
	return comment != nil && comment.CommenterID == actor.ID
}

func (s *authorizationService) ResolveReportScope(ctx context.Context, actor Actor) (ReportScope, error) {
	switch actor.Role {
	case model.RoleAdmin:
		return ReportScope{Unrestricted: true}, nil
	case model.RoleManager:
		subordinates, err := s.salesPersonRepo.FindSubordinateIDs(ctx, actor.ID)
		if err != nil {
			return ReportScope{}, err
		}
		ids := make([]uint, 0, len(subordinates)+1)
		ids = append(ids, actor.ID)
		for _, id := range subordinates {
			if id != actor.ID {
				ids = append(ids, id)
			}
		}
		return ReportScope{OwnerIDs: ids}, nil
	default:
		return ReportScope{OwnerIDs: []uint{actor.ID}}, nil
	}
}
