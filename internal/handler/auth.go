package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/security/auth"
	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// AuthHandler handles signup, session and credential recovery endpoints
// for both principal kinds.
type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, secureCookie bool, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the token for clients that do not keep cookies.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	User  any    `json:"user"`
}

// SignupHR handles POST /api/auth/HR/signup
func (h *AuthHandler) SignupHR(w http.ResponseWriter, r *http.Request) {
	var req service.HRSignupInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	result, err := h.authService.SignupHR(r.Context(), req)
	if err != nil {
		h.logger.Info("HR signup failed",
			slog.String("organization", req.Name),
			slog.String("error", err.Error()),
		)
		fail(w, r, h.logger, err)
		return
	}

	ok(w, http.StatusCreated, "HR registered successfully", result)
}

// SignupEmployee handles POST /api/auth/employee/signup (HR-Admin only)
func (h *AuthHandler) SignupEmployee(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeSignupInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	result, err := h.authService.SignupEmployee(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	ok(w, http.StatusCreated, "Employee registered successfully", result)
}

// AddHR handles POST /api/v1/HR/create-HR
func (h *AuthHandler) AddHR(w http.ResponseWriter, r *http.Request) {
	var req service.HRInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	result, err := h.authService.AddHR(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	ok(w, http.StatusCreated, "HR created successfully", result)
}

// Login handles POST /api/auth/{HR|employee}/login
func (h *AuthHandler) Login(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decode(r, &req); err != nil {
			fail(w, r, h.logger, err)
			return
		}

		result, err := h.authService.Login(r.Context(), role, req.Email, req.Password)
		if err != nil {
			fail(w, r, h.logger, err)
			return
		}

		http.SetCookie(w, result.Session.Cookie)
		ok(w, http.StatusOK, "Logged in successfully", LoginResponse{
			Token: result.Session.Token,
			Role:  string(role),
			User:  viewPrincipal(result.Principal),
		})
	}
}

// Logout handles POST /api/auth/{HR|employee}/logout
func (h *AuthHandler) Logout(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.ClearCookie(w, auth.CookieName(role), h.secureCookie)
		ok(w, http.StatusOK, "Logged out successfully", nil)
	}
}

// CheckLogin handles GET /api/auth/{HR|employee}/check-login
func (h *AuthHandler) CheckLogin(w http.ResponseWriter, r *http.Request) {
	p, err := h.authService.CurrentPrincipal(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Session is valid", viewPrincipal(p))
}

type verifyEmailRequest struct {
	Code string `json:"verificationcode"`
}

// VerifyEmail handles POST /api/auth/{HR|employee}/verify-email
func (h *AuthHandler) VerifyEmail(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyEmailRequest
		if err := decode(r, &req); err != nil {
			fail(w, r, h.logger, err)
			return
		}
		sent, err := h.authService.VerifyEmail(r.Context(), role, req.Code)
		if err != nil {
			fail(w, r, h.logger, err)
			return
		}
		ok(w, http.StatusOK, "Email verified successfully", map[string]bool{"emailSent": sent})
	}
}

type resendVerificationRequest struct {
	Email string `json:"email"`
}

// ResendVerification handles POST /api/auth/{HR|employee}/resend-verify-email
func (h *AuthHandler) ResendVerification(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resendVerificationRequest
		if err := decode(r, &req); err != nil {
			fail(w, r, h.logger, err)
			return
		}
		sent, err := h.authService.ResendVerification(r.Context(), role, req.Email)
		if err != nil {
			fail(w, r, h.logger, err)
			return
		}
		ok(w, http.StatusOK, "Verification code sent", map[string]bool{"emailSent": sent})
	}
}

// CheckVerified handles GET /api/auth/{HR|employee}/check-verify-email
func (h *AuthHandler) CheckVerified(w http.ResponseWriter, r *http.Request) {
	verified, err := h.authService.IsVerified(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "", map[string]bool{"isverified": verified})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /api/auth/{HR|employee}/forgot-password. The
// answer is the same whether or not the address is registered.
func (h *AuthHandler) ForgotPassword(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotPasswordRequest
		if err := decode(r, &req); err != nil {
			fail(w, r, h.logger, err)
			return
		}
		sent, err := h.authService.ForgotPassword(r.Context(), role, req.Email)
		if err != nil {
			fail(w, r, h.logger, err)
			return
		}
		ok(w, http.StatusOK, "If the address is registered, a reset link was sent", map[string]bool{"emailSent": sent})
	}
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword handles POST /api/auth/{HR|employee}/reset-password/{token}
func (h *AuthHandler) ResetPassword(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if err := decode(r, &req); err != nil {
			fail(w, r, h.logger, err)
			return
		}
		sent, err := h.authService.ResetPassword(r.Context(), role, r.PathValue("token"), req.Password)
		if err != nil {
			fail(w, r, h.logger, err)
			return
		}
		ok(w, http.StatusOK, "Password reset successfully", map[string]bool{"emailSent": sent})
	}
}

// ChangePasswordRequest represents change password request
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword handles PATCH /api/v1/HR/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	if err := h.authService.ChangePassword(r.Context(), req.OldPassword, req.NewPassword); err != nil {
		fail(w, r, h.logger, err)
		return
	}

	ok(w, http.StatusOK, "password changed successfully", nil)
}
