package domain

import (
	"strings"
	"time"
)

// Nutriment is a single nutrient reading from the upstream database,
// e.g. energy 1500 kJ or sugars 12 g.
type Nutriment struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// ProductRecord is the normalized result of one barcode lookup. Every field
// except Barcode is optional: the upstream database is community-curated and
// records are frequently partial.
//
// JSON field names follow the upstream (Open Food Facts) convention so
// persisted history slots stay readable by other tooling.
type ProductRecord struct {
	Barcode              string               `json:"barcode"`
	Symbology            string               `json:"symbology,omitempty"`
	ProductName          string               `json:"product_name,omitempty"`
	Brands               string               `json:"brands,omitempty"`
	Categories           string               `json:"categories,omitempty"`
	Packaging            string               `json:"packaging,omitempty"`
	EcoscoreGrade        string               `json:"ecoscore_grade,omitempty"`
	CarbonFootprintValue *float64             `json:"carbon_footprint_value,omitempty"`
	CarbonFootprintUnit  string               `json:"carbon_footprint_unit,omitempty"`
	Nutriments           map[string]Nutriment `json:"nutriments,omitempty"`
	ScannedAt            time.Time            `json:"scanned_at,omitempty"`
}

// Valid reports whether the record carries enough data to show in the
// history view. Records without a product name are skipped at read time but
// never deleted from storage.
func (r *ProductRecord) Valid() bool {
	return strings.TrimSpace(r.ProductName) != ""
}

// Grade returns the eco-score grade normalized to uppercase, or "" when the
// record has none.
func (r *ProductRecord) Grade() string {
	return strings.ToUpper(strings.TrimSpace(r.EcoscoreGrade))
}
