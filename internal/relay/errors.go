package relay

import (
	"net/http"
	"strings"

	"github.com/ai-gateway/chat-relay/internal/provider"
)

// Error codes reported to clients.
const (
	CodeAuthentication     = "authentication_error"
	CodeRateLimit          = "rate_limit_error"
	CodeInvalidRequest     = "invalid_request_error"
	CodeServiceUnavailable = "service_unavailable_error"
	CodeProvider           = "openai_error"
	CodeInternal           = "internal_error"
)

// Category is the client-facing classification of a failure.
type Category struct {
	Code    string
	Message string
	Status  int
}

var (
	authentication = Category{
		Code:    CodeAuthentication,
		Message: "Authentication failed. Please check your API key.",
		Status:  http.StatusBadGateway,
	}
	rateLimit = Category{
		Code:    CodeRateLimit,
		Message: "Rate limit exceeded. Please try again later.",
		Status:  http.StatusTooManyRequests,
	}
	invalidRequest = Category{
		Code:    CodeInvalidRequest,
		Message: "Invalid request. Please check your input and try again.",
		Status:  http.StatusBadRequest,
	}
	serviceUnavailable = Category{
		Code:    CodeServiceUnavailable,
		Message: "The AI service is currently unavailable. Please try again later.",
		Status:  http.StatusServiceUnavailable,
	}
	providerFailure = Category{
		Code:    CodeProvider,
		Message: "An error occurred while processing your request.",
		Status:  http.StatusBadGateway,
	}
	internal = Category{
		Code:    CodeInternal,
		Message: "An unexpected error occurred. Our team has been notified.",
		Status:  http.StatusInternalServerError,
	}
)

// Order matters: the first matching substring wins.
var textRules = []struct {
	substr   string
	category Category
}{
	{"authentication", authentication},
	{"rate limit", rateLimit},
	{"invalid request", invalidRequest},
	{"service unavailable", serviceUnavailable},
}

// Classify maps err to a client-facing category. Only *provider.Error values
// are treated as provider failures; everything else is internal.
func Classify(err error) Category {
	pe, ok := provider.AsError(err)
	if !ok {
		return internal
	}

	text := strings.ToLower(pe.Error())
	for _, r := range textRules {
		if strings.Contains(text, r.substr) {
			return r.category
		}
	}

	switch pe.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return authentication
	case http.StatusTooManyRequests:
		return rateLimit
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		return invalidRequest
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return serviceUnavailable
	}
	return providerFailure
}

// InvalidInput is the category used for requests rejected before reaching the provider.
func InvalidInput() Category { return invalidRequest }
