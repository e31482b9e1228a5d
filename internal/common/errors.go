package common

import "errors"

// Business logic errors. Messages are shown to end users as-is.
var (
	// Validation errors
	ErrPlayerNameRequired = errors.New("Please enter a player name.")
	ErrInvalidStartDate   = errors.New("Invalid start date")
	ErrInvalidEndDate     = errors.New("Invalid end date")

	// Processing errors
	ErrProcessingFailed = errors.New("Failed to fetch or process data.")
	ErrMediaSearch      = errors.New("TMDB search failed")
)

// IsValidation reports whether err is a user input error
func IsValidation(err error) bool {
	return errors.Is(err, ErrPlayerNameRequired) ||
		errors.Is(err, ErrInvalidStartDate) ||
		errors.Is(err, ErrInvalidEndDate)
}

// UserMessage returns the message safe to show for err.
// Anything that is not a known business error collapses to ErrProcessingFailed.
func UserMessage(err error) string {
	for _, known := range []error{ErrPlayerNameRequired, ErrInvalidStartDate, ErrInvalidEndDate, ErrMediaSearch} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return ErrProcessingFailed.Error()
}
