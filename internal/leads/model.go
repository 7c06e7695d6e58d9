package leads

import (
	"strconv"
	"strings"
	"time"
)

// Defaults applied when a submission omits the field.
const (
	DefaultSource   = "website"
	DefaultLeadType = "unknown"
)

// Lead is a prospective client's contact and search-preference record.
// Optional fields are nil when the submission did not carry them.
type Lead struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`

	Source   string  `json:"source"`
	PagePath *string `json:"page_path"`

	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`

	LeadType string  `json:"lead_type"`
	Message  *string `json:"message"`

	Areas        *string  `json:"areas"`
	Towns        *string  `json:"towns"`
	PriceMin     *float64 `json:"price_min"`
	PriceMax     *float64 `json:"price_max"`
	Beds         *float64 `json:"beds"`
	Baths        *float64 `json:"baths"`
	PropertyType *string  `json:"property_type"`
	Timeline     *string  `json:"timeline"`
	Financing    *string  `json:"financing"`

	Booked bool `json:"booked"`
}

// textField reads a free-text field. Scalars are rendered as text; objects,
// arrays and null are treated as absent.
func textField(payload map[string]any, key string) *string {
	switch v := payload[key].(type) {
	case string:
		return &v
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		return &s
	case bool:
		s := strconv.FormatBool(v)
		return &s
	default:
		return nil
	}
}

// stringField reads a field only when it is a JSON string.
func stringField(payload map[string]any, key string) *string {
	if v, ok := payload[key].(string); ok {
		return &v
	}
	return nil
}

func textFieldOr(payload map[string]any, key, fallback string) string {
	if v := textField(payload, key); v != nil {
		return *v
	}
	return fallback
}

// numberField reads a numeric field. Numeric strings are accepted since form
// inputs are text; anything else is absent.
func numberField(payload map[string]any, key string) *float64 {
	switch v := payload[key].(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func boolField(payload map[string]any, key string) bool {
	switch v := payload[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}
