package models

import (
	"teebox/src/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Course carries the provider linkage used by the tee-sheet indexer and
// the trusted pricing configuration checkout recomputes charges from.
// Rate columns are hundredths of a percent, money columns are cents.
type Course struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `json:"name,omitempty"`
	Slug     string `json:"slug,omitempty"`
	EntityID uint   `json:"entity_id,omitempty"`

	Provider           string `json:"-"`
	ProviderID         string `json:"-"`
	ProviderCourseID   string `json:"-"`
	ProviderTeeSheetID string `json:"-"`
	ProviderToken      string `json:"-"`

	GreenFeeTaxRate         int64 `json:"green_fee_tax_rate,omitempty"`
	CartFeeTaxRate          int64 `json:"cart_fee_tax_rate,omitempty"`
	WeatherGuaranteeTaxRate int64 `json:"weather_guarantee_tax_rate,omitempty"`
	MarkupTaxRate           int64 `json:"markup_tax_rate,omitempty"`
	MerchandiseTaxRate      int64 `json:"merchandise_tax_rate,omitempty"`
	ConvenienceFee          int64 `json:"convenience_fee,omitempty"`
	CartFee                 int64 `json:"cart_fee,omitempty"`
	Markup                  int64 `json:"markup,omitempty"`

	TeeTimes []TeeTime `gorm:"foreignKey:course_id" json:"tee_times,omitempty"`

	types.Timestamps
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" && c.Name != "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}
