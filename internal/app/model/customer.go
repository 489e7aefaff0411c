package model

import "time"

type Customer struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CustomerCode string    `gorm:"type:varchar(20);uniqueIndex:idx_customers_customer_code;not null" json:"customer_code"`
	Name         string    `gorm:"type:varchar(200);not null" json:"name"`
	Address      *string   `gorm:"type:varchar(500)" json:"address"`
	Phone        *string   `gorm:"type:varchar(20)" json:"phone"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

type CreateCustomerRequest struct {
	CustomerCode string  `json:"customer_code" binding:"required,alphanum,max=20"`
	Name         string  `json:"name" binding:"required,max=200"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	Phone        *string `json:"phone" binding:"omitempty,max=20"`
}

type UpdateCustomerRequest struct {
	CustomerCode *string `json:"customer_code" binding:"omitempty,alphanum,max=20"`
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	Phone        *string `json:"phone" binding:"omitempty,max=20"`
	IsActive     *bool   `json:"is_active"`
}

type CustomerListQuery struct {
	Page     *int   `form:"page"`
	PerPage  *int   `form:"per_page"`
	Keyword  string `form:"keyword"`
	IsActive *bool  `form:"is_active"`
}
