package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"taxapi/internal/model"
	"taxapi/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Event names pushed to EventPublisher after a committed mutation
const (
	EventTaxCreated = "tax.created"
	EventTaxUpdated = "tax.updated"
	EventTaxDeleted = "tax.deleted"
	EventTaxToggled = "tax.toggled"
)

const requiredMessage = "This field is required."

// --- DTOs ---

// TaxRequest is the body of create, full update and partial update. Absent fields are nil.
// calculated_amount, id and timestamps are not part of it and are dropped when sent.
type TaxRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	TaxType     *string          `json:"tax_type"`
	Rate        *decimal.Decimal `json:"rate" swaggertype:"string" example:"7.25"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"string" example:"1000.00"`
	IsActive    *bool            `json:"is_active"`
}

type TaxResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	TaxType          string    `json:"tax_type"`
	TaxTypeDisplay   string    `json:"tax_type_display"`
	Rate             string    `json:"rate"`
	Amount           string    `json:"amount"`
	CalculatedAmount string    `json:"calculated_amount"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TaxListQuery holds the raw filter query parameters. Unrecognized values are ignored.
type TaxListQuery struct {
	IsActive string
	TaxType  string
}

type TaxTypeSummary struct {
	Count       int    `json:"count"`
	TotalAmount string `json:"total_amount"`
}

type TaxSummaryResponse struct {
	TotalTaxes            int                       `json:"total_taxes"`
	ActiveTaxes           int                       `json:"active_taxes"`
	TotalCalculatedAmount string                    `json:"total_calculated_amount"`
	TaxTypeSummary        map[string]TaxTypeSummary `json:"tax_type_summary"`
}

type CalculateTaxRequest struct {
	Amount *decimal.Decimal `json:"amount" swaggertype:"string" example:"100.00"`
	Rate   *decimal.Decimal `json:"rate" swaggertype:"string" example:"20"`
}

type CalculateTaxResponse struct {
	Amount      string `json:"amount"`
	Rate        string `json:"rate"`
	TaxAmount   string `json:"tax_amount"`
	TotalAmount string `json:"total_amount"`
}

// EventPublisher receives committed tax changes, e.g. the websocket hub
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

// --- Interface ---

type TaxService interface {
	ListTaxes(ctx context.Context, query TaxListQuery) ([]TaxResponse, error)
	GetTax(ctx context.Context, id string) (TaxResponse, error)
	CreateTax(ctx context.Context, req TaxRequest) (TaxResponse, error)
	UpdateTax(ctx context.Context, id string, req TaxRequest, partial bool) (TaxResponse, error)
	DeleteTax(ctx context.Context, id string) error
	GetSummary(ctx context.Context, query TaxListQuery) (TaxSummaryResponse, error)
	ToggleActive(ctx context.Context, id string) (TaxResponse, error)
	Calculate(req CalculateTaxRequest) (CalculateTaxResponse, error)
}

type taxService struct {
	taxRepo   repository.TaxRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	publisher EventPublisher
}

// NewTaxService wires the tax use cases. publisher may be nil.
func NewTaxService(
	taxRepo repository.TaxRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher EventPublisher,
) TaxService {
	return &taxService{
		taxRepo:   taxRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// --- Implementation ---

func (s *taxService) ListTaxes(ctx context.Context, query TaxListQuery) ([]TaxResponse, error) {
	taxes, err := s.taxRepo.List(ctx, ParseTaxFilter(query))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch taxes: %w", err)
	}

	res := make([]TaxResponse, 0, len(taxes))
	for _, t := range taxes {
		res = append(res, ToTaxResponse(t))
	}
	return res, nil
}

func (s *taxService) GetTax(ctx context.Context, id string) (TaxResponse, error) {
	tax, err := s.findTax(ctx, id)
	if err != nil {
		return TaxResponse{}, err
	}
	return ToTaxResponse(*tax), nil
}

func (s *taxService) CreateTax(ctx context.Context, req TaxRequest) (TaxResponse, error) {
	missing := model.FieldErrors{}
	if req.Name == nil {
		missing["name"] = requiredMessage
	}
	if req.TaxType == nil {
		missing["tax_type"] = requiredMessage
	}
	if req.Rate == nil {
		missing["rate"] = requiredMessage
	}

	tax := model.Tax{
		Amount:   decimal.Zero,
		IsActive: true,
	}
	applyTaxRequest(&tax, req)

	if err := validate(tax, missing); err != nil {
		return TaxResponse{}, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.taxRepo.Create(txCtx, &tax); err != nil {
			return fmt.Errorf("failed to create tax: %w", err)
		}
		return s.writeAuditLog(txCtx, model.ActionCreateTax, tax, req)
	})
	if err != nil {
		return TaxResponse{}, err
	}

	res := ToTaxResponse(tax)
	s.publish(EventTaxCreated, res)
	return res, nil
}

// UpdateTax merges req into the stored record. A full update (partial=false) requires name, tax_type and rate.
func (s *taxService) UpdateTax(ctx context.Context, id string, req TaxRequest, partial bool) (TaxResponse, error) {
	tax, err := s.findTax(ctx, id)
	if err != nil {
		return TaxResponse{}, err
	}

	missing := model.FieldErrors{}
	if !partial {
		if req.Name == nil {
			missing["name"] = requiredMessage
		}
		if req.TaxType == nil {
			missing["tax_type"] = requiredMessage
		}
		if req.Rate == nil {
			missing["rate"] = requiredMessage
		}
	}

	applyTaxRequest(tax, req)
	if err := validate(*tax, missing); err != nil {
		return TaxResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.taxRepo.Update(txCtx, tax); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaxNotFound
			}
			return fmt.Errorf("failed to update tax: %w", err)
		}
		return s.writeAuditLog(txCtx, model.ActionUpdateTax, *tax, req)
	})
	if err != nil {
		return TaxResponse{}, err
	}

	res := ToTaxResponse(*tax)
	s.publish(EventTaxUpdated, res)
	return res, nil
}

func (s *taxService) DeleteTax(ctx context.Context, id string) error {
	tax, err := s.findTax(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		affected, err := s.taxRepo.Delete(txCtx, tax.ID)
		if err != nil {
			return fmt.Errorf("failed to delete tax: %w", err)
		}
		if affected == 0 {
			return ErrTaxNotFound
		}
		return s.writeAuditLog(txCtx, model.ActionDeleteTax, *tax, map[string]string{"deleted_id": tax.ID.String()})
	})
	if err != nil {
		return err
	}

	s.publish(EventTaxDeleted, ToTaxResponse(*tax))
	return nil
}

func (s *taxService) GetSummary(ctx context.Context, query TaxListQuery) (TaxSummaryResponse, error) {
	taxes, err := s.taxRepo.List(ctx, ParseTaxFilter(query))
	if err != nil {
		return TaxSummaryResponse{}, fmt.Errorf("failed to fetch taxes: %w", err)
	}

	summary := model.Summarize(taxes)

	byType := make(map[string]TaxTypeSummary, len(summary.ByType))
	for taxType, totals := range summary.ByType {
		byType[taxType] = TaxTypeSummary{
			Count:       totals.Count,
			TotalAmount: totals.TotalAmount.StringFixedBank(model.CalculatedPlaces),
		}
	}

	return TaxSummaryResponse{
		TotalTaxes:            summary.TotalTaxes,
		ActiveTaxes:           summary.ActiveTaxes,
		TotalCalculatedAmount: summary.TotalCalculatedAmount.StringFixedBank(model.CalculatedPlaces),
		TaxTypeSummary:        byType,
	}, nil
}

// ToggleActive flips is_active. Concurrent toggles of one record are last write wins.
func (s *taxService) ToggleActive(ctx context.Context, id string) (TaxResponse, error) {
	tax, err := s.findTax(ctx, id)
	if err != nil {
		return TaxResponse{}, err
	}

	tax.IsActive = !tax.IsActive

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.taxRepo.Update(txCtx, tax); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaxNotFound
			}
			return fmt.Errorf("failed to toggle tax: %w", err)
		}
		return s.writeAuditLog(txCtx, model.ActionToggleTaxActive, *tax, map[string]bool{"is_active": tax.IsActive})
	})
	if err != nil {
		return TaxResponse{}, err
	}

	res := ToTaxResponse(*tax)
	s.publish(EventTaxToggled, res)
	return res, nil
}

// Calculate previews the tax on an amount without storing anything
func (s *taxService) Calculate(req CalculateTaxRequest) (CalculateTaxResponse, error) {
	errs := model.FieldErrors{}
	if req.Amount == nil {
		errs["amount"] = requiredMessage
	} else if req.Amount.IsNegative() {
		errs["amount"] = "Ensure this value is greater than or equal to 0."
	}
	if req.Rate == nil {
		errs["rate"] = requiredMessage
	} else if msg := model.CheckRate(*req.Rate); msg != "" {
		errs["rate"] = msg
	}
	if len(errs) > 0 {
		return CalculateTaxResponse{}, newValidationError(errs)
	}

	preview := model.Tax{Amount: *req.Amount, Rate: *req.Rate}
	taxAmount := preview.CalculatedAmount()

	return CalculateTaxResponse{
		Amount:      req.Amount.StringFixed(model.DecimalPlaces),
		Rate:        req.Rate.StringFixed(model.DecimalPlaces),
		TaxAmount:   taxAmount.StringFixedBank(model.CalculatedPlaces),
		TotalAmount: req.Amount.Add(taxAmount).StringFixedBank(model.CalculatedPlaces),
	}, nil
}

// --- Helpers ---

// ParseTaxFilter turns query parameters into a repository filter, skipping values it does not recognize
func ParseTaxFilter(query TaxListQuery) repository.TaxFilter {
	var filter repository.TaxFilter

	if v := strings.TrimSpace(query.IsActive); v != "" {
		if b, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			filter.IsActive = &b
		}
	}

	if v := strings.TrimSpace(query.TaxType); model.IsValidTaxType(v) {
		filter.TaxType = &v
	}

	return filter
}

func (s *taxService) findTax(ctx context.Context, id string) (*model.Tax, error) {
	taxID, err := model.ParseID(id)
	if err != nil {
		return nil, ErrTaxNotFound
	}

	tax, err := s.taxRepo.FindByID(ctx, taxID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaxNotFound
		}
		return nil, fmt.Errorf("failed to fetch tax: %w", err)
	}
	return tax, nil
}

func applyTaxRequest(tax *model.Tax, req TaxRequest) {
	if req.Name != nil {
		tax.Name = *req.Name
	}
	if req.Description != nil {
		tax.Description = *req.Description
	}
	if req.TaxType != nil {
		tax.TaxType = *req.TaxType
	}
	if req.Rate != nil {
		tax.Rate = *req.Rate
	}
	if req.Amount != nil {
		tax.Amount = *req.Amount
	}
	if req.IsActive != nil {
		tax.IsActive = *req.IsActive
	}
}

// validate merges missing-field errors with the record's own constraint errors
func validate(tax model.Tax, missing model.FieldErrors) error {
	errs := model.FieldErrors{}
	for field, msg := range tax.Validate() {
		errs[field] = msg
	}
	for field, msg := range missing {
		errs[field] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return newValidationError(errs)
}

// ToTaxResponse renders a stored tax with its derived fields
func ToTaxResponse(t model.Tax) TaxResponse {
	return TaxResponse{
		ID:               t.ID.String(),
		Name:             t.Name,
		Description:      t.Description,
		TaxType:          t.TaxType,
		TaxTypeDisplay:   model.TaxTypeDisplay(t.TaxType),
		Rate:             t.Rate.StringFixed(model.DecimalPlaces),
		Amount:           t.Amount.StringFixed(model.DecimalPlaces),
		CalculatedAmount: t.CalculatedAmount().StringFixedBank(model.CalculatedPlaces),
		IsActive:         t.IsActive,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func (s *taxService) writeAuditLog(ctx context.Context, action string, tax model.Tax, details interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	entry := &model.AuditLog{
		Action:     action,
		EntityID:   tax.ID.String(),
		EntityName: tax.String(),
		Details:    string(detailsJSON),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *taxService) publish(eventType string, payload TaxResponse) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(eventType, payload)
	slog.Debug("published tax event", "event", eventType, "tax_id", payload.ID)
}
