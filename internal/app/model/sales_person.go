package model

import (
	"time"
)

type Role string // sales person role

const (
	RoleMember  Role = "member"  // files own reports
	RoleManager Role = "manager" // reviews subordinates' reports
	RoleAdmin   Role = "admin"   // manages master data, sees everything
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type SalesPerson struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	EmployeeCode string    `gorm:"type:varchar(20);uniqueIndex:idx_sales_persons_employee_code;not null" json:"employee_code"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:idx_sales_persons_email;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	ManagerID    *uint     `gorm:"index" json:"manager_id"` // one level: manager -> members
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Manager *SalesPerson `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
}

func (SalesPerson) TableName() string {
	return "sales_persons"
}

type CreateSalesPersonRequest struct {
	EmployeeCode string `json:"employee_code" binding:"required,alphanum,max=20"`
	Name         string `json:"name" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,email,max=255"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
	Role         Role   `json:"role" binding:"required,oneof=member manager admin"`
	ManagerID    *uint  `json:"manager_id"`
}

// UpdateSalesPersonRequest is partial: nil fields are left unchanged.
// ClearManager detaches the person from their manager.
type UpdateSalesPersonRequest struct {
	EmployeeCode *string `json:"employee_code" binding:"omitempty,alphanum,max=20"`
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email        *string `json:"email" binding:"omitempty,email,max=255"`
	Password     *string `json:"password" binding:"omitempty,min=8,max=72"`
	Role         *Role   `json:"role" binding:"omitempty,oneof=member manager admin"`
	ManagerID    *uint   `json:"manager_id"`
	ClearManager bool    `json:"clear_manager"`
	IsActive     *bool   `json:"is_active"`
}

type SalesPersonListQuery struct {
	Page     *int   `form:"page"`
	PerPage  *int   `form:"per_page"`
	Keyword  string `form:"keyword"`
	Role     *Role  `form:"role" binding:"omitempty,oneof=member manager admin"`
	IsActive *bool  `form:"is_active"`
}
