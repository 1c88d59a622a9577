package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"ticket-storefront/internal/dto/request"
	"ticket-storefront/internal/usecase"
	"ticket-storefront/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// SignUp handles POST /api/auth/sign-up
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req request.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.SignUp(r.Context(), &req); err != nil {
		h.handleServiceError(w, err, "sign up")
		return
	}

	utils.ResponseCreated(w, "Account created successfully! Please check your email to verify your account.", nil)
}

// SignIn handles POST /api/auth/sign-in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req request.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.SignIn(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "sign in")
		return
	}

	utils.ResponseSuccess(w, "Welcome back! You have successfully signed in.", resp)
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	utils.ResponseSuccess(w, "Session active", h.service.CurrentSession(r.Context(), session))
}

// SignOut handles POST /api/auth/sign-out
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.SignOut(r.Context(), session); err != nil {
		h.handleServiceError(w, err, "sign out")
		return
	}

	utils.ResponseSuccess(w, "Signed out", map[string]string{"redirect": "/auth"})
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var verr *usecase.ValidationError
	var aerr *usecase.AuthError

	switch {
	case errors.As(err, &verr):
		h.log.Warn(operation+" validation failed", zap.String("reason", verr.Message))
		utils.ResponseBadRequest(w, verr.Message, verr.Fields)

	case errors.As(err, &aerr):
		switch aerr.Kind {
		case usecase.AuthInvalidCredentials:
			h.log.Warn(operation + " failed - invalid credentials")
			utils.ResponseUnauthorized(w, aerr.Message)
		case usecase.AuthAlreadyRegistered:
			h.log.Warn(operation + " failed - already registered")
			utils.ResponseConflict(w, aerr.Message, nil)
		case usecase.AuthProvider:
			h.log.Warn(operation+" failed - provider refused", zap.Error(aerr.Err))
			utils.ResponseBadRequest(w, aerr.Message, nil)
		default:
			h.log.Error("Failed to "+operation, zap.Error(aerr.Err))
			utils.ResponseInternalError(w, aerr.Message)
		}

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "An unexpected error occurred. Please try again.")
	}
}
