package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/application/auth"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/transport/http/middleware"
)

// AuthHandler handles the identity and account-recovery endpoints.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.Register(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "registered; check your email to verify the account")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, LoginData{Token: result.Token, User: result.User})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "token required")
		return
	}
	already, err := h.svc.VerifyEmail(r.Context(), token)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, VerifyEmailData{AlreadyVerified: already})
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	if err := h.svc.ResendVerification(r.Context(), email); err != nil {
		httpError(w, err)
		return
	}
	// Identical shape whether or not the email is registered.
	writeMessage(w, http.StatusOK, "if the email is registered, a verification message was sent")
}

func (h *AuthHandler) RequestPasswordRecovery(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	if err := h.svc.RequestPasswordRecovery(r.Context(), email); err != nil {
		httpError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "if the email is registered, a recovery message was sent")
}

func (h *AuthHandler) GetSecurityQuestions(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	q1, q2, err := h.svc.GetSecurityQuestions(r.Context(), email)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, QuestionsData{Question1: q1, Question2: q2})
}

func (h *AuthHandler) VerifySecurityAnswers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email   string `json:"email"`
		Answer1 string `json:"answer1"`
		Answer2 string `json:"answer2"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.svc.VerifySecurityAnswers(r.Context(), req.Email, req.Answer1, req.Answer2)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, ResetTokenData{Token: token})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		httpError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "password updated")
}

func (h *AuthHandler) SetSecurityQuestions(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.SetSecurityQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SetSecurityQuestions(r.Context(), claims.UserID, req); err != nil {
		httpError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "security questions updated")
}

func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := h.svc.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func decodeEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return "", false
	}
	return req.Email, true
}
