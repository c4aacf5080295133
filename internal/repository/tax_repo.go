package repository

import (
	"context"
	"strings"
	"time"

	"taxapi/internal/model"

	"gorm.io/gorm"
)

// TaxFilter narrows a tax listing. Nil fields are not applied.
type TaxFilter struct {
	IsActive      *bool
	TaxType       *string
	CreatedAfter  *time.Time // inclusive
	CreatedBefore *time.Time // exclusive
	Search        string     // case-insensitive substring over name and description
}

type TaxRepository interface {
	Create(ctx context.Context, tax *model.Tax) error
	Update(ctx context.Context, tax *model.Tax) error
	Delete(ctx context.Context, id model.ID) (int64, error)
	FindByID(ctx context.Context, id model.ID) (*model.Tax, error)
	List(ctx context.Context, filter TaxFilter) ([]model.Tax, error)
	ListPage(ctx context.Context, filter TaxFilter, offset, limit int) ([]model.Tax, int64, error)
}

type taxRepository struct {
	db *gorm.DB
}

func NewTaxRepository(db *gorm.DB) TaxRepository {
	return &taxRepository{db: db}
}

func (r *taxRepository) Create(ctx context.Context, tax *model.Tax) error {
	return GetDB(ctx, r.db).Create(tax).Error
}

// Update writes every column and refreshes updated_at.
// A row deleted since it was read is not recreated; gorm.ErrRecordNotFound is returned instead.
func (r *taxRepository) Update(ctx context.Context, tax *model.Tax) error {
	res := GetDB(ctx, r.db).Model(tax).Select("*").Updates(tax)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the row and reports how many rows were affected
func (r *taxRepository) Delete(ctx context.Context, id model.ID) (int64, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Tax{})
	return res.RowsAffected, res.Error
}

func (r *taxRepository) FindByID(ctx context.Context, id model.ID) (*model.Tax, error) {
	var tax model.Tax
	if err := GetDB(ctx, r.db).First(&tax, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tax, nil
}

// List returns every matching record, newest first
func (r *taxRepository) List(ctx context.Context, filter TaxFilter) ([]model.Tax, error) {
	var taxes []model.Tax
	if err := applyTaxFilter(GetDB(ctx, r.db), filter).Order("created_at desc").Find(&taxes).Error; err != nil {
		return nil, err
	}
	return taxes, nil
}

func (r *taxRepository) ListPage(ctx context.Context, filter TaxFilter, offset, limit int) ([]model.Tax, int64, error) {
	var taxes []model.Tax
	var total int64

	db := GetDB(ctx, r.db)
	if err := applyTaxFilter(db.Model(&model.Tax{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := applyTaxFilter(db, filter).Order("created_at desc").Offset(offset).Limit(limit).Find(&taxes).Error; err != nil {
		return nil, 0, err
	}

	return taxes, total, nil
}

func applyTaxFilter(query *gorm.DB, filter TaxFilter) *gorm.DB {
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.TaxType != nil {
		query = query.Where("tax_type = ?", *filter.TaxType)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	return query
}
