package ledger

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=ledger_repo.go -destination=mock/ledger_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, b *EmployeeBalance) error
	FindByEmployee(ctx context.Context, employeeID string) (*EmployeeBalance, error)
	Update(ctx context.Context, b *EmployeeBalance) error
	AppendHistory(ctx context.Context, e *BalanceHistoryEntry) error
	ListHistory(ctx context.Context, employeeID string, limit int) ([]BalanceHistoryEntry, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, b *EmployeeBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) (*EmployeeBalance, error) {
	var b EmployeeBalance
	err := r.db.WithContext(ctx).
		First(&b, "employee_id = ?", employeeID).Error
	return &b, err
}

func (r *repository) Update(ctx context.Context, b *EmployeeBalance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) AppendHistory(ctx context.Context, e *BalanceHistoryEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) ListHistory(ctx context.Context, employeeID string, limit int) ([]BalanceHistoryEntry, error) {
	var entries []BalanceHistoryEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
