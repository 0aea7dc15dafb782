package holiday

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Filter narrows List results. Zero values mean no constraint.
type Filter struct {
	Year   int
	Month  int
	Type   string
	Active *bool
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type MonthCount struct {
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, h *Holiday) error
	FindByID(ctx context.Context, id string) (*Holiday, error)
	List(ctx context.Context, f Filter) ([]Holiday, error)
	Update(ctx context.Context, h *Holiday) error
	Delete(ctx context.Context, id string) (int64, error)
	DeleteByYear(ctx context.Context, year int) (int64, error)

	CountActiveByYear(ctx context.Context, year int) (int64, error)
	CountByType(ctx context.Context, year int) ([]TypeCount, error)
	CountByMonth(ctx context.Context, year int) ([]MonthCount, error)
	FindUpcoming(ctx context.Context, from time.Time, limit int) ([]Holiday, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Holiday, error) {
	var h Holiday
	err := r.db.WithContext(ctx).First(&h, "id = ?", id).Error
	return &h, err
}

func (r *repository) List(ctx context.Context, f Filter) ([]Holiday, error) {
	db := r.db.WithContext(ctx)

	if f.Year > 0 {
		db = db.Where("year = ?", f.Year)
	}
	if f.Month >= 1 && f.Month <= 12 {
		db = db.Where("EXTRACT(MONTH FROM date) = ?", f.Month)
	}
	if f.Type != "" {
		db = db.Where("type = ?", f.Type)
	}
	if f.Active != nil {
		db = db.Where("is_active = ?", *f.Active)
	}

	var holidays []Holiday
	err := db.Order("date ASC").Find(&holidays).Error
	return holidays, err
}

func (r *repository) Update(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Holiday{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteByYear(ctx context.Context, year int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Holiday{}, "year = ?", year)
	return res.RowsAffected, res.Error
}

func (r *repository) CountActiveByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Holiday{}).
		Where("year = ? AND is_active", year).
		Count(&count).Error
	return count, err
}

func (r *repository) CountByType(ctx context.Context, year int) ([]TypeCount, error) {
	var counts []TypeCount
	err := r.db.WithContext(ctx).
		Model(&Holiday{}).
		Select("type, COUNT(*) AS count").
		Where("year = ? AND is_active", year).
		Group("type").
		Order("type ASC").
		Scan(&counts).Error
	return counts, err
}

func (r *repository) CountByMonth(ctx context.Context, year int) ([]MonthCount, error) {
	var counts []MonthCount
	err := r.db.WithContext(ctx).
		Model(&Holiday{}).
		Select("EXTRACT(MONTH FROM date)::int AS month, COUNT(*) AS count").
		Where("year = ? AND is_active", year).
		Group("month").
		Order("month ASC").
		Scan(&counts).Error
	return counts, err
}

func (r *repository) FindUpcoming(ctx context.Context, from time.Time, limit int) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Where("date >= ? AND is_active", from).
		Order("date ASC").
		Limit(limit).
		Find(&holidays).Error
	return holidays, err
}
