package http

import (
	"encoding/json"
	"net/http"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	token, user, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"token": token, "user": user})
}

type createOperatorRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateOperator provisions staff accounts. Only admins may call it.
func (h *AuthHandler) CreateOperator(w http.ResponseWriter, r *http.Request) {
	claims, ok := operatorFromContext(r.Context())
	if !ok || claims.Role != string(domain.UserRoleAdmin) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required"})
		return
	}
	var req createOperatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeBadRequest(w, "name, email and password are required")
		return
	}
	role := domain.UserRole(req.Role)
	if role == "" {
		role = domain.UserRoleOperator
	}

	user, err := h.authSvc.CreateOperator(r.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}
