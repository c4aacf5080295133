package repository

import (
	"context"
	"errors"
	"testing"

	"taxapi/internal/model"
	"taxapi/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTxRollsBackTaxAndAudit(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	taxRepo := NewTaxRepository(db)
	auditRepo := NewAuditRepository(db)
	txManager := NewTransactionManager(db)

	boom := errors.New("boom")
	err := txManager.RunInTx(ctx, func(txCtx context.Context) error {
		tax := &model.Tax{Name: "Temp", TaxType: model.TaxTypeOther, Rate: decimal.NewFromInt(1), Amount: decimal.Zero}
		require.NoError(t, taxRepo.Create(txCtx, tax))
		require.NoError(t, auditRepo.Log(txCtx, &model.AuditLog{Action: model.ActionCreateTax, EntityID: tax.ID.String()}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	taxes, err := taxRepo.List(ctx, TaxFilter{})
	require.NoError(t, err)
	assert.Empty(t, taxes)

	_, total, err := auditRepo.List(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRunInTxCommitsAndNests(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	taxRepo := NewTaxRepository(db)
	auditRepo := NewAuditRepository(db)
	txManager := NewTransactionManager(db)

	var taxID string
	err := txManager.RunInTx(ctx, func(txCtx context.Context) error {
		tax := &model.Tax{Name: "Kept", TaxType: model.TaxTypeVAT, Rate: decimal.NewFromInt(20), Amount: decimal.NewFromInt(10)}
		if err := taxRepo.Create(txCtx, tax); err != nil {
			return err
		}
		taxID = tax.ID.String()
		return txManager.RunInTx(txCtx, func(inner context.Context) error {
			return auditRepo.Log(inner, &model.AuditLog{Action: model.ActionCreateTax, EntityID: taxID})
		})
	})
	require.NoError(t, err)

	logs, total, err := auditRepo.List(ctx, taxID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ActionCreateTax, logs[0].Action)

	_, total, err = auditRepo.List(ctx, "someone-else", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}
