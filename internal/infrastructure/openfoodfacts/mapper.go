package openfoodfacts

import (
	"strconv"
	"strings"
	"time"

	"github.com/ecoscan/backend/internal/domain"
)

// productPayload is the envelope of the v0 product endpoint. status is 1 when
// a product body is present, 0 otherwise.
type productPayload struct {
	Status  int         `json:"status"`
	Product *rawProduct `json:"product"`
}

// rawProduct holds the upstream fields the app cares about. Numeric fields
// use any because the database is community-edited and values arrive as JSON
// numbers or strings interchangeably.
type rawProduct struct {
	ProductName          string         `json:"product_name"`
	Brands               string         `json:"brands"`
	Categories           string         `json:"categories"`
	Packaging            string         `json:"packaging"`
	EcoscoreGrade        string         `json:"ecoscore_grade"`
	CarbonFootprintValue any            `json:"carbon_footprint_value"`
	CarbonFootprintUnit  string         `json:"carbon_footprint_unit"`
	Nutriments           map[string]any `json:"nutriments"`
}

// mapToProductRecord converts an upstream product body into the domain
// record. Every field is optional; malformed sub-fields are skipped rather
// than failing the whole record.
func mapToProductRecord(barcode string, raw *rawProduct) *domain.ProductRecord {
	record := &domain.ProductRecord{
		Barcode:             barcode,
		ProductName:         strings.TrimSpace(raw.ProductName),
		Brands:              strings.TrimSpace(raw.Brands),
		Categories:          strings.TrimSpace(raw.Categories),
		Packaging:           strings.TrimSpace(raw.Packaging),
		EcoscoreGrade:       strings.ToUpper(strings.TrimSpace(raw.EcoscoreGrade)),
		CarbonFootprintUnit: strings.TrimSpace(raw.CarbonFootprintUnit),
		ScannedAt:           time.Now().UTC(),
	}

	if v, ok := coerceFloat(raw.CarbonFootprintValue); ok {
		record.CarbonFootprintValue = &v
	} else {
		record.CarbonFootprintUnit = ""
	}

	record.Nutriments = extractNutriments(raw.Nutriments)
	return record
}

// extractNutriments pulls nutrient pairs out of the upstream nutriments
// object. Upstream encodes them as flat "<name>_value" / "<name>_unit" keys,
// including hyphenated names like "saturated-fat_value". Entries whose value
// cannot be read as a number are dropped; the rest of the record is kept.
func extractNutriments(raw map[string]any) map[string]domain.Nutriment {
	if len(raw) == 0 {
		return nil
	}

	nutriments := make(map[string]domain.Nutriment)
	for key, value := range raw {
		name, found := strings.CutSuffix(key, "_value")
		if !found || name == "" {
			continue
		}
		v, ok := coerceFloat(value)
		if !ok {
			continue
		}
		unit, _ := raw[name+"_unit"].(string)
		nutriments[name] = domain.Nutriment{Value: v, Unit: unit}
	}

	if len(nutriments) == 0 {
		return nil
	}
	return nutriments
}

// coerceFloat reads a loosely typed upstream value as a float64.
func coerceFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
