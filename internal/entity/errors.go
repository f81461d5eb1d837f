package entity

import "errors"

// Domain errors
var (
	// Agent errors
	ErrAgentNotFound = errors.New("agent not found")

	// Knowledge source errors
	ErrEntryNotFound       = errors.New("knowledge entry not found")
	ErrIndexNotFound       = errors.New("llamacloud index not found")
	ErrIndexUnavailable    = errors.New("llamacloud index is not available")
	ErrIndexAlreadyExists  = errors.New("llamacloud index already registered")
	ErrContentTooLarge     = errors.New("entry content too large")
	ErrInvalidUsageContext = errors.New("invalid usage context")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ErrorResponse is the JSON body returned for failed requests
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
