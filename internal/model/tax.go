package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TaxType enum constants
const (
	TaxTypeIncome    = "income"
	TaxTypeSales     = "sales"
	TaxTypeProperty  = "property"
	TaxTypeCorporate = "corporate"
	TaxTypeVAT       = "vat"
	TaxTypeOther     = "other"
)

// Column limits mirrored by the gorm tags below
const (
	NameMaxLength = 200

	RateMaxDigits     = 5
	AmountMaxDigits   = 12
	DecimalPlaces     = 2
	CalculatedPlaces  = 2 // derived amounts are rendered rounding half to even
	RateMinPercentage = 0
	RateMaxPercentage = 100
)

// TaxTypes lists the accepted tax_type values in display order
var TaxTypes = []string{
	TaxTypeIncome,
	TaxTypeSales,
	TaxTypeProperty,
	TaxTypeCorporate,
	TaxTypeVAT,
	TaxTypeOther,
}

var taxTypeLabels = map[string]string{
	TaxTypeIncome:    "Income Tax",
	TaxTypeSales:     "Sales Tax",
	TaxTypeProperty:  "Property Tax",
	TaxTypeCorporate: "Corporate Tax",
	TaxTypeVAT:       "VAT",
	TaxTypeOther:     "Other",
}

var hundred = decimal.NewFromInt(100)

// IsValidTaxType reports whether t is one of the enumerated tax types
func IsValidTaxType(t string) bool {
	_, ok := taxTypeLabels[t]
	return ok
}

// TaxTypeDisplay returns the human readable label of a tax type, or the raw value when unknown
func TaxTypeDisplay(t string) string {
	if label, ok := taxTypeLabels[t]; ok {
		return label
	}
	return t
}

// Tax is a single tax rule with a percentage rate applied to a base amount
type Tax struct {
	ID          ID              `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	TaxType     string          `gorm:"type:varchar(20);not null;index" json:"tax_type"` // income, sales, property, corporate, vat, other
	Rate        decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"rate"`          // percentage, 7.25 = 7.25%
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`       // base amount the rate applies to
	IsActive    bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Tax) TableName() string {
	return "taxes"
}

// BeforeCreate assigns the primary key so inserts do not depend on a database-side uuid function
func (t *Tax) BeforeCreate(_ *gorm.DB) error {
	if t.ID.IsZero() {
		t.ID = NewID()
	}
	return nil
}

// CalculatedAmount returns amount * rate / 100. It is never persisted.
func (t Tax) CalculatedAmount() decimal.Decimal {
	return t.Amount.Mul(t.Rate).Div(hundred)
}

func (t Tax) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, TaxTypeDisplay(t.TaxType))
}

// FieldErrors maps a field name to a human readable validation message
type FieldErrors map[string]string

// Validate checks every stored field constraint and returns nil when the record is acceptable
func (t Tax) Validate() FieldErrors {
	errs := FieldErrors{}

	name := strings.TrimSpace(t.Name)
	switch {
	case name == "":
		errs["name"] = "This field may not be blank."
	case len([]rune(t.Name)) > NameMaxLength:
		errs["name"] = fmt.Sprintf("Ensure this field has no more than %d characters.", NameMaxLength)
	}

	if !IsValidTaxType(t.TaxType) {
		errs["tax_type"] = fmt.Sprintf("%q is not a valid choice. Valid choices: %s.", t.TaxType, strings.Join(TaxTypes, ", "))
	}

	if msg := checkRate(t.Rate); msg != "" {
		errs["rate"] = msg
	}

	if msg := checkPrecision(t.Amount, AmountMaxDigits, DecimalPlaces); msg != "" {
		errs["amount"] = msg
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CheckRate validates a percentage rate on its own, used by the calculator preview
func CheckRate(rate decimal.Decimal) string {
	return checkRate(rate)
}

func checkRate(rate decimal.Decimal) string {
	if rate.LessThan(decimal.NewFromInt(RateMinPercentage)) {
		return fmt.Sprintf("Ensure this value is greater than or equal to %d.", RateMinPercentage)
	}
	if rate.GreaterThan(decimal.NewFromInt(RateMaxPercentage)) {
		return fmt.Sprintf("Ensure this value is less than or equal to %d.", RateMaxPercentage)
	}
	return checkPrecision(rate, RateMaxDigits, DecimalPlaces)
}

// checkPrecision enforces a decimal(maxDigits, places) column shape. Trailing zeros do not count.
func checkPrecision(d decimal.Decimal, maxDigits, places int32) string {
	if !d.Equal(d.Round(places)) {
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", places)
	}
	if d.Abs().GreaterThanOrEqual(decimal.New(1, maxDigits-places)) {
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", maxDigits-places)
	}
	return ""
}
