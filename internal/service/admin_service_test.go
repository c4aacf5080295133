package service

import (
	"context"
	"testing"
	"time"

	"taxapi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminMeta(t *testing.T) {
	f := newFixture(t)
	admin := NewAdminService(f.svc, f.taxRepo)

	meta := admin.Meta()

	assert.Equal(t, []string{"name", "tax_type", "rate", "amount", "calculated_amount", "is_active", "created_at"}, meta.ListDisplay)
	assert.Equal(t, []string{"name", "description"}, meta.SearchFields)
	require.Len(t, meta.ListFilter, 3)
	assert.Equal(t, "tax_type", meta.ListFilter[0].Field)
	assert.Len(t, meta.ListFilter[0].Choices, len(model.TaxTypes))
	require.Len(t, meta.Fieldsets, 4)
	assert.Equal(t, []string{"collapse"}, meta.Fieldsets[3].Classes)
}

func TestAdminListTaxes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := NewAdminService(f.svc, f.taxRepo)

	createTax(t, f.svc, "Federal Income", model.TaxTypeIncome, "22", "1000", true)
	_, err := f.svc.CreateTax(ctx, TaxRequest{
		Name:        strPtr("City Levy"),
		Description: strPtr("Municipal property charge"),
		TaxType:     strPtr(model.TaxTypeProperty),
		Rate:        decPtr("1.25"),
		Amount:      decPtr("200000"),
		IsActive:    boolPtr(false),
	})
	require.NoError(t, err)

	rows, total, err := admin.ListTaxes(ctx, AdminTaxQuery{Search: "municipal", Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "City Levy", rows[0].Name)
	assert.Equal(t, "2500.00", rows[0].CalculatedAmount)

	rows, total, err = admin.ListTaxes(ctx, AdminTaxQuery{IsActive: "true", CreatedAt: CreatedAtToday, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Federal Income", rows[0].Name)

	rows, total, err = admin.ListTaxes(ctx, AdminTaxQuery{CreatedAt: "last_century", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 1)
}

func TestAdminListTaxesCreatedAtExcludesOtherYears(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := &adminService{
		taxService: f.svc,
		taxRepo:    f.taxRepo,
		now:        func() time.Time { return time.Now().AddDate(-2, 0, 0) },
	}
	createTax(t, f.svc, "Recent", model.TaxTypeOther, "1", "1", true)

	_, total, err := admin.ListTaxes(ctx, AdminTaxQuery{CreatedAt: CreatedAtThisYear, Limit: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAdminGetTax(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := NewAdminService(f.svc, f.taxRepo)
	created := createTax(t, f.svc, "State Sales", model.TaxTypeSales, "7.25", "1000", true)

	detail, err := admin.GetTax(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "State Sales (Sales Tax)", detail.Title)
	require.Len(t, detail.Fieldsets, 4)
	financial := detail.Fieldsets[1]
	assert.Equal(t, "Financial Details", financial.Name)
	require.Len(t, financial.Fields, 3)
	assert.Equal(t, "calculated_amount", financial.Fields[2].Name)
	assert.Equal(t, "72.50", financial.Fields[2].Value)
	assert.True(t, financial.Fields[2].ReadOnly)
	assert.False(t, financial.Fields[0].ReadOnly)
	assert.True(t, detail.Fieldsets[3].Collapsed)

	_, err = admin.GetTax(ctx, "missing")
	assert.ErrorIs(t, err, ErrTaxNotFound)
}

func TestCreatedAtRange(t *testing.T) {
	now := time.Date(2024, 5, 15, 13, 30, 0, 0, time.UTC)

	tests := []struct {
		choice   string
		wantFrom time.Time
		wantTo   time.Time
	}{
		{CreatedAtToday, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC)},
		{CreatedAtPast7Days, time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC)},
		{CreatedAtThisMonth, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{CreatedAtThisYear, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.choice, func(t *testing.T) {
			from, to := createdAtRange(tt.choice, now)
			require.NotNil(t, from)
			require.NotNil(t, to)
			assert.Equal(t, tt.wantFrom, *from)
			assert.Equal(t, tt.wantTo, *to)
		})
	}

	from, to := createdAtRange("", now)
	assert.Nil(t, from)
	assert.Nil(t, to)
}
