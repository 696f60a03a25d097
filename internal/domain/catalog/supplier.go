package catalog

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Supplier is a reagent vendor with its contact persons
type Supplier struct {
	shared.BaseAggregateRoot
	Name     string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:varchar(255)"`
	Phone    string `gorm:"type:varchar(50)"`
	Address  string `gorm:"type:varchar(500)"`
	Active   bool   `gorm:"not null;default:true"`
	Contacts []SupplierContact `gorm:"foreignKey:SupplierID;references:ID"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierContact is a contact person at a supplier
type SupplierContact struct {
	shared.BaseEntity
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(255);not null"`
	Role       string    `gorm:"type:varchar(100)"`
	Email      string    `gorm:"type:varchar(255)"`
	Phone      string    `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (SupplierContact) TableName() string {
	return "supplier_contacts"
}

// NewSupplier creates a new supplier
func NewSupplier(name, email, phone, address string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Phone:             phone,
		Address:           address,
		Active:            true,
		Contacts:          make([]SupplierContact, 0),
	}, nil
}

// AddContact adds a contact person to the supplier
func (s *Supplier) AddContact(name, role, email, phone string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Contact name cannot be empty")
	}
	s.Contacts = append(s.Contacts, SupplierContact{
		BaseEntity: shared.NewBaseEntity(),
		SupplierID: s.ID,
		Name:       name,
		Role:       role,
		Email:      email,
		Phone:      phone,
	})
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate marks the supplier as no longer in use. Suppliers are
// never deleted so historical orders keep their reference.
func (s *Supplier) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
