package billing

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceIssued  InvoiceStatus = "issued"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoiceVoided  InvoiceStatus = "voided"
)

// Invoice and its lines/payments are written by the finance subsystem; the
// portal only sums and lists them. Amounts are minor units.
type Invoice struct {
	ID                uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID         uuid.UUID     `gorm:"type:uuid;not null;index;column:student_id" json:"student_id"`
	Period            string        `gorm:"not null;column:period" json:"period"`
	Status            InvoiceStatus `gorm:"not null;default:'issued';column:status" json:"status"`
	TotalAmount       int64         `gorm:"not null;column:total_amount" json:"total_amount"`
	OutstandingAmount int64         `gorm:"not null;column:outstanding_amount" json:"outstanding_amount"`
	IssuedAt          time.Time     `gorm:"not null;index;column:issued_at" json:"issued_at"`
	DueDate           *time.Time    `gorm:"column:due_date" json:"due_date,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Lines    []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"lines,omitempty"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

func (Invoice) TableName() string { return "invoice" }

type InvoiceLine struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index;column:invoice_id" json:"invoice_id"`
	Item      string    `gorm:"not null;column:item" json:"item"`
	Quantity  int       `gorm:"not null;default:1;column:quantity" json:"quantity"`
	UnitPrice int64     `gorm:"not null;column:unit_price" json:"unit_price"`
	Subtotal  int64     `gorm:"not null;column:subtotal" json:"subtotal"`
}

func (InvoiceLine) TableName() string { return "invoice_line" }

type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index;column:invoice_id" json:"invoice_id"`
	Amount    int64     `gorm:"not null;column:amount" json:"amount"`
	Method    string    `gorm:"not null;column:method" json:"method"`
	PaidAt    time.Time `gorm:"not null;column:paid_at" json:"paid_at"`
	TxRef     string    `gorm:"column:tx_ref" json:"tx_ref,omitempty"`
}

func (Payment) TableName() string { return "payment" }
