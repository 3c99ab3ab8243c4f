package controller

import (
	"errors"
	"net/http"

	"github.com/kdduha/kolam-knowledge/internal/knowledge"
)

var ErrEmptyQuery = errors.New("query is empty")

const (
	MsgNotFound      = "Knowledge API endpoint not found. Please check server configuration."
	MsgServerError   = "Server error occurred. Please try again later."
	MsgAuthorization = "Authorization error. Please check your credentials."
	MsgNoResponse    = "No response from server. Please check your internet connection."
	MsgInvalidFormat = "Invalid response format from server."
	MsgGeneric       = "Failed to fetch knowledge. Please try again."

	MsgMockConfigured = "Using mock data (configured)"
)

// Classify maps a source failure to the message shown to the user.
func Classify(err error) string {
	if code, ok := knowledge.StatusCode(err); ok {
		switch code {
		case http.StatusNotFound:
			return MsgNotFound
		case http.StatusInternalServerError:
			return MsgServerError
		case http.StatusUnauthorized, http.StatusForbidden:
			return MsgAuthorization
		}
		return MsgGeneric
	}
	if knowledge.IsNoResponse(err) {
		return MsgNoResponse
	}
	if errors.Is(err, knowledge.ErrInvalidResponse) {
		return MsgInvalidFormat
	}
	return MsgGeneric
}
