package billing

import (
	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// CompanyProfile carries the tenant-independent document defaults loaded
// from configuration: the issuing jurisdiction, the GST rate applied when
// a request does not override it, and the numbering format.
type CompanyProfile struct {
	State          string
	DefaultTaxRate decimal.Decimal
	Numbering      billing.NumberingConfig
}

// DefaultCompanyProfile returns an 18% GST profile with standard numbering
func DefaultCompanyProfile(state string) CompanyProfile {
	return CompanyProfile{
		State:          state,
		DefaultTaxRate: decimal.NewFromInt(18),
		Numbering:      billing.DefaultNumberingConfig(),
	}
}

// taxRateOrDefault picks the request override when present
func (p CompanyProfile) taxRateOrDefault(override *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return p.DefaultTaxRate
}
