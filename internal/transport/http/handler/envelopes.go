package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
)

// Envelope is the generic response wrapper. ErrorCode carries the
// machine-readable taxonomy tag clients branch on.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
}

// LoginData is the payload of a successful login.
type LoginData struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// VerifyEmailData reports whether a verification link was a stale re-click
// on an already verified account.
type VerifyEmailData struct {
	AlreadyVerified bool `json:"already_verified"`
}

// QuestionsData carries the security-question texts, never hashes or answers.
type QuestionsData struct {
	Question1 string `json:"question1"`
	Question2 string `json:"question2"`
}

// ResetTokenData carries the reset token minted by the security-question channel.
type ResetTokenData struct {
	Token string `json:"token"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: true, Message: msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Error: msg})
}

// httpError maps a domain error onto HTTP status + wire error code.
func httpError(w http.ResponseWriter, err error) {
	code := domain.Code(err)
	status := http.StatusInternalServerError
	switch code {
	case domain.CodeValidation, domain.CodeAreaRequired:
		status = http.StatusUnprocessableEntity
	case domain.CodeConflict:
		status = http.StatusConflict
	case domain.CodeAuth, domain.CodeInvalidToken:
		status = http.StatusUnauthorized
	case domain.CodeVerificationRequired, domain.CodeForbidden:
		status = http.StatusForbidden
	case domain.CodeNotConfigured, domain.CodeNotFound:
		status = http.StatusNotFound
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Do not leak infrastructure details.
		msg = "internal error"
	}
	if errors.Is(err, domain.ErrAuth) {
		msg = "invalid credentials"
	}
	writeJSON(w, status, Envelope{Error: msg, ErrorCode: code})
}
