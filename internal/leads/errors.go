package leads

import "errors"

var (
	// ErrInvalidPayload is returned when the body is not a JSON object
	ErrInvalidPayload = errors.New("Invalid request")

	// ErrMissingContact is returned when neither a usable email nor phone is present
	ErrMissingContact = errors.New("Please provide an email or phone number.")

	// ErrHoneypot marks a submission from an automated form-filler. Callers
	// must answer it exactly like a stored lead.
	ErrHoneypot = errors.New("honeypot field populated")
)
