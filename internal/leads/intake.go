package leads

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf16"
)

// HoneypotField is rendered hidden on every form; only bots fill it in.
const HoneypotField = "company"

// MinPhoneLength is the shortest trimmed phone string accepted as a contact.
const MinPhoneLength = 7

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DecodePayload parses a request body into an untyped JSON object. The body
// must hold exactly one JSON value.
func DecodePayload(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrInvalidPayload)
	}
	payload, ok := body.(map[string]any)
	if !ok {
		return nil, ErrInvalidPayload
	}
	return payload, nil
}

// Normalize turns an untrusted payload into a Lead ready for storage.
// It returns ErrHoneypot for bot submissions and ErrMissingContact when the
// lead carries neither a valid email nor a usable phone number.
func Normalize(payload map[string]any) (*Lead, error) {
	if honeypotTriggered(payload[HoneypotField]) {
		return nil, ErrHoneypot
	}

	lead := &Lead{
		Source:   textFieldOr(payload, "source", DefaultSource),
		PagePath: textField(payload, "page_path"),

		Name:  textField(payload, "name"),
		Email: textField(payload, "email"),
		Phone: textField(payload, "phone"),

		LeadType: textFieldOr(payload, "lead_type", DefaultLeadType),
		Message:  textField(payload, "message"),

		Areas:        textField(payload, "areas"),
		Towns:        textField(payload, "towns"),
		PriceMin:     numberField(payload, "price_min"),
		PriceMax:     numberField(payload, "price_max"),
		Beds:         numberField(payload, "beds"),
		Baths:        numberField(payload, "baths"),
		PropertyType: textField(payload, "property_type"),
		Timeline:     textField(payload, "timeline"),
		Financing:    textField(payload, "financing"),

		Booked: boolField(payload, "booked"),
	}

	if !contactable(payload) {
		return nil, ErrMissingContact
	}
	return lead, nil
}

// contactable looks at the raw payload: only real JSON strings count as an
// email or phone, even though numbers are stored as text.
func contactable(payload map[string]any) bool {
	return ValidEmail(stringField(payload, "email")) || ValidPhone(stringField(payload, "phone"))
}

// ValidEmail applies a minimal syntactic check: local@domain.tld without
// whitespace.
func ValidEmail(email *string) bool {
	return email != nil && emailPattern.MatchString(*email)
}

// ValidPhone only checks length; formats and country codes vary too much.
// Length is counted in UTF-16 code units, as browsers count form input.
func ValidPhone(phone *string) bool {
	return phone != nil && utf16Len(strings.TrimSpace(*phone)) >= MinPhoneLength
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

func honeypotTriggered(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	default:
		return true
	}
}
