package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/textscope/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	codes    map[string]domain.ErrorCategory
	patterns []categoryPattern
}

type categoryPattern struct {
	category domain.ErrorCategory
	needles  []string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		codes:    initializeErrorCodes(),
		patterns: initializeErrorPatterns(),
	}
}

func initializeErrorCodes() map[string]domain.ErrorCategory {
	return map[string]domain.ErrorCategory{
		domain.ErrCodeInvalidCredentials:   domain.ErrorCategoryAuth,
		domain.ErrCodeRegistrationRejected: domain.ErrorCategoryAuth,
		domain.ErrCodeSessionExpired:       domain.ErrorCategoryAuth,
		domain.ErrCodeEmptyInput:           domain.ErrorCategoryInput,
		domain.ErrCodeInvalidInput:         domain.ErrorCategoryInput,
		domain.ErrCodeNotFound:             domain.ErrorCategoryInput,
		domain.ErrCodeCancelled:            domain.ErrorCategoryInput,
		domain.ErrCodeBusy:                 domain.ErrorCategoryInput,
		domain.ErrCodeParseFailure:         domain.ErrorCategoryServer,
		domain.ErrCodeConfigError:          domain.ErrorCategoryConfig,
		domain.ErrCodeOutputError:          domain.ErrorCategoryOutput,
		domain.ErrCodeUnsupportedFormat:    domain.ErrorCategoryOutput,
	}
}

// initializeErrorPatterns is the fallback for errors that carry no domain code.
// Order matters: the first matching category wins.
func initializeErrorPatterns() []categoryPattern {
	return []categoryPattern{
		{domain.ErrorCategoryNetwork, []string{
			"connection refused",
			"no such host",
			"timeout",
			"deadline exceeded",
			"network is unreachable",
			"eof",
		}},
		{domain.ErrorCategoryConfig, []string{
			"config",
			"toml",
			".env",
		}},
		{domain.ErrorCategoryOutput, []string{
			"write",
			"output",
			"cannot create",
		}},
		{domain.ErrorCategoryInput, []string{
			"invalid input",
			"no files",
			"file not found",
			"permission denied",
		}},
	}
}

// Categorize determines the category of an error
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &domain.CategorizedError{Category: domain.ErrorCategoryNetwork, Message: "Request was cancelled or timed out", Original: err}
	}

	if code := domain.ErrorCode(err); code != "" {
		if code == domain.ErrCodeRequestFailed {
			return &domain.CategorizedError{Category: requestFailureCategory(err), Message: domain.UserMessage(err), Original: err}
		}
		if category, ok := ec.codes[code]; ok {
			return &domain.CategorizedError{Category: category, Message: domain.UserMessage(err), Original: err}
		}
	}

	errMsg := strings.ToLower(err.Error())
	for _, p := range ec.patterns {
		if containsAnyPattern(errMsg, p.needles) {
			return &domain.CategorizedError{
				Category: p.category,
				Message:  ec.getCategoryMessage(p.category),
				Original: err,
			}
		}
	}

	return &domain.CategorizedError{
		Category: domain.ErrorCategoryUnknown,
		Message:  err.Error(),
		Original: err,
	}
}

// requestFailureCategory separates transport failures from backend refusals.
func requestFailureCategory(err error) domain.ErrorCategory {
	var se *statusError
	if errors.As(err, &se) {
		return domain.ErrorCategoryServer
	}
	return domain.ErrorCategoryNetwork
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryAuth: {
			"Run: textscope login to start a new session",
			"Check your username and password",
			"Run: textscope whoami to see the current session",
		},
		domain.ErrorCategoryInput: {
			"Provide non-empty text with --text or one or more input files",
			"Check that input files exist and are readable",
			"Run: textscope history to list valid analysis ids",
		},
		domain.ErrorCategoryNetwork: {
			"Check that the backend is running and reachable",
			"Verify api.base_url in .textscope.toml or TEXTSCOPE_API_BASE_URL",
			"Retry the command once the connection is restored",
		},
		domain.ErrorCategoryServer: {
			"The backend rejected the request; see the message above",
			"Run with --verbose to log request ids for the backend team",
		},
		domain.ErrorCategoryConfig: {
			"Verify configuration file format and values",
			"Try: textscope init to generate a valid config file",
			"Check TEXTSCOPE_* environment variables and .env files",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions for the output path",
			"Use one of --json, --yaml, --csv or --html",
			"Try writing to a different location",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryNetwork: "Could not reach the TextScope backend",
		domain.ErrorCategoryConfig:  "Configuration file or settings error",
		domain.ErrorCategoryOutput:  "Failed to generate or write output",
		domain.ErrorCategoryInput:   "Failed to process input",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An unexpected error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
