package billing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	billdom "github.com/rskala/campusbridge-backend/internal/domain/billing"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
	"github.com/rskala/campusbridge-backend/internal/pkg/pagination"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
)

type ListInvoicesFilters struct {
	Status *billdom.InvoiceStatus
	Page   int
	Limit  int
}

type InvoiceRepo interface {
	ListForStudent(dbc dbctx.Context, studentID uuid.UUID, filters ListInvoicesFilters) ([]*billdom.Invoice, int64, error)
	SumOutstanding(dbc dbctx.Context, studentID uuid.UUID) (int64, error)
}

type invoiceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvoiceRepo(db *gorm.DB, baseLog *logger.Logger) InvoiceRepo {
	return &invoiceRepo{db: db, log: baseLog.With("repo", "InvoiceRepo")}
}

func (r *invoiceRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *invoiceRepo) ListForStudent(dbc dbctx.Context, studentID uuid.UUID, filters ListInvoicesFilters) ([]*billdom.Invoice, int64, error) {
	params := pagination.Normalize(filters.Page, filters.Limit)

	scoped := func() *gorm.DB {
		q := r.handle(dbc).
			Model(&billdom.Invoice{}).
			Where("student_id = ?", studentID)
		if filters.Status != nil {
			q = q.Where("status = ?", *filters.Status)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []*billdom.Invoice
	err := scoped().
		Preload("Lines").
		Preload("Payments").
		Order("issued_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *invoiceRepo) SumOutstanding(dbc dbctx.Context, studentID uuid.UUID) (int64, error) {
	var sum int64
	err := r.handle(dbc).
		Model(&billdom.Invoice{}).
		Select("COALESCE(SUM(outstanding_amount), 0)").
		Where("student_id = ? AND outstanding_amount > 0 AND status NOT IN ?", studentID,
			[]billdom.InvoiceStatus{billdom.InvoiceDraft, billdom.InvoiceVoided}).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}
