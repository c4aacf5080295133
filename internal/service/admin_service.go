package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taxapi/internal/model"
	"taxapi/internal/repository"
)

// created_at filter choices of the operator listing
const (
	CreatedAtToday     = "today"
	CreatedAtPast7Days = "past_7_days"
	CreatedAtThisMonth = "this_month"
	CreatedAtThisYear  = "this_year"
)

const adminTitle = "Taxes"

// --- DTOs ---

// AdminTaxQuery is the operator listing query. Empty or unrecognized filters are ignored.
type AdminTaxQuery struct {
	TaxType   string
	IsActive  string
	CreatedAt string
	Search    string
	Offset    int
	Limit     int
}

// AdminTaxRow carries exactly the list_display columns plus the id to link to
type AdminTaxRow struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	TaxType          string    `json:"tax_type"`
	Rate             string    `json:"rate"`
	Amount           string    `json:"amount"`
	CalculatedAmount string    `json:"calculated_amount"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

type AdminChoice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type AdminFilter struct {
	Field   string        `json:"field"`
	Choices []AdminChoice `json:"choices"`
}

type AdminFieldsetMeta struct {
	Name    string   `json:"name"`
	Fields  []string `json:"fields"`
	Classes []string `json:"classes,omitempty"`
}

type AdminTaxMeta struct {
	Title          string              `json:"title"`
	ListDisplay    []string            `json:"list_display"`
	ListFilter     []AdminFilter       `json:"list_filter"`
	SearchFields   []string            `json:"search_fields"`
	ReadonlyFields []string            `json:"readonly_fields"`
	Fieldsets      []AdminFieldsetMeta `json:"fieldsets"`
}

type AdminField struct {
	Name     string      `json:"name"`
	Value    interface{} `json:"value"`
	ReadOnly bool        `json:"read_only"`
}

type AdminFieldset struct {
	Name      string       `json:"name"`
	Collapsed bool         `json:"collapsed"`
	Fields    []AdminField `json:"fields"`
}

type AdminTaxDetail struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Fieldsets []AdminFieldset `json:"fieldsets"`
}

// --- Interface ---

// AdminService is the read-only operator view over taxes. It has no rules of its own.
type AdminService interface {
	Meta() AdminTaxMeta
	ListTaxes(ctx context.Context, query AdminTaxQuery) ([]AdminTaxRow, int64, error)
	GetTax(ctx context.Context, id string) (AdminTaxDetail, error)
}

type adminService struct {
	taxService TaxService
	taxRepo    repository.TaxRepository
	now        func() time.Time
}

func NewAdminService(taxService TaxService, taxRepo repository.TaxRepository) AdminService {
	return &adminService{taxService: taxService, taxRepo: taxRepo, now: time.Now}
}

var (
	adminListDisplay    = []string{"name", "tax_type", "rate", "amount", "calculated_amount", "is_active", "created_at"}
	adminSearchFields   = []string{"name", "description"}
	adminReadonlyFields = []string{"created_at", "updated_at", "calculated_amount"}
	adminFieldsets      = []AdminFieldsetMeta{
		{Name: "Basic Information", Fields: []string{"name", "description", "tax_type"}},
		{Name: "Financial Details", Fields: []string{"rate", "amount", "calculated_amount"}},
		{Name: "Status", Fields: []string{"is_active"}},
		{Name: "Timestamps", Fields: []string{"created_at", "updated_at"}, Classes: []string{"collapse"}},
	}
)

// --- Implementation ---

func (s *adminService) Meta() AdminTaxMeta {
	taxTypes := make([]AdminChoice, 0, len(model.TaxTypes))
	for _, t := range model.TaxTypes {
		taxTypes = append(taxTypes, AdminChoice{Value: t, Label: model.TaxTypeDisplay(t)})
	}

	return AdminTaxMeta{
		Title:       adminTitle,
		ListDisplay: adminListDisplay,
		ListFilter: []AdminFilter{
			{Field: "tax_type", Choices: taxTypes},
			{Field: "is_active", Choices: []AdminChoice{{Value: "true", Label: "Yes"}, {Value: "false", Label: "No"}}},
			{Field: "created_at", Choices: []AdminChoice{
				{Value: CreatedAtToday, Label: "Today"},
				{Value: CreatedAtPast7Days, Label: "Past 7 days"},
				{Value: CreatedAtThisMonth, Label: "This month"},
				{Value: CreatedAtThisYear, Label: "This year"},
			}},
		},
		SearchFields:   adminSearchFields,
		ReadonlyFields: adminReadonlyFields,
		Fieldsets:      adminFieldsets,
	}
}

func (s *adminService) ListTaxes(ctx context.Context, query AdminTaxQuery) ([]AdminTaxRow, int64, error) {
	filter := ParseTaxFilter(TaxListQuery{IsActive: query.IsActive, TaxType: query.TaxType})
	filter.Search = strings.TrimSpace(query.Search)
	filter.CreatedAfter, filter.CreatedBefore = createdAtRange(query.CreatedAt, s.now())

	taxes, total, err := s.taxRepo.ListPage(ctx, filter, query.Offset, query.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch taxes: %w", err)
	}

	rows := make([]AdminTaxRow, 0, len(taxes))
	for _, t := range taxes {
		res := ToTaxResponse(t)
		rows = append(rows, AdminTaxRow{
			ID:               res.ID,
			Name:             res.Name,
			TaxType:          res.TaxType,
			Rate:             res.Rate,
			Amount:           res.Amount,
			CalculatedAmount: res.CalculatedAmount,
			IsActive:         res.IsActive,
			CreatedAt:        res.CreatedAt,
		})
	}
	return rows, total, nil
}

func (s *adminService) GetTax(ctx context.Context, id string) (AdminTaxDetail, error) {
	tax, err := s.taxService.GetTax(ctx, id)
	if err != nil {
		return AdminTaxDetail{}, err
	}

	values := map[string]interface{}{
		"name":              tax.Name,
		"description":       tax.Description,
		"tax_type":          tax.TaxType,
		"rate":              tax.Rate,
		"amount":            tax.Amount,
		"calculated_amount": tax.CalculatedAmount,
		"is_active":         tax.IsActive,
		"created_at":        tax.CreatedAt,
		"updated_at":        tax.UpdatedAt,
	}
	readonly := make(map[string]bool, len(adminReadonlyFields))
	for _, f := range adminReadonlyFields {
		readonly[f] = true
	}

	fieldsets := make([]AdminFieldset, 0, len(adminFieldsets))
	for _, meta := range adminFieldsets {
		fs := AdminFieldset{Name: meta.Name}
		for _, class := range meta.Classes {
			if class == "collapse" {
				fs.Collapsed = true
			}
		}
		for _, field := range meta.Fields {
			fs.Fields = append(fs.Fields, AdminField{Name: field, Value: values[field], ReadOnly: readonly[field]})
		}
		fieldsets = append(fieldsets, fs)
	}

	return AdminTaxDetail{
		ID:        tax.ID,
		Title:     fmt.Sprintf("%s (%s)", tax.Name, tax.TaxTypeDisplay),
		Fieldsets: fieldsets,
	}, nil
}

// createdAtRange resolves a created_at choice to [from, to) in now's location
func createdAtRange(choice string, now time.Time) (*time.Time, *time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	var from, to time.Time
	switch choice {
	case CreatedAtToday:
		from, to = today, tomorrow
	case CreatedAtPast7Days:
		from, to = today.AddDate(0, 0, -7), tomorrow
	case CreatedAtThisMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 1, 0)
	case CreatedAtThisYear:
		from = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(1, 0, 0)
	default:
		return nil, nil
	}
	return &from, &to
}
