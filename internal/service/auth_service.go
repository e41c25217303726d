package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/featureflags"
	"github.com/aryan0dhankhar/hrportal/internal/observability/metrics"
	"github.com/aryan0dhankhar/hrportal/internal/security/auth"
	"github.com/aryan0dhankhar/hrportal/internal/security/ratelimit"
)

const (
	verificationTTL = 5 * time.Minute
	resetTTL        = time.Hour
	loginWindow     = 15 * time.Minute
)

// Mailer sends the auth emails and reports whether delivery succeeded.
type Mailer interface {
	SendVerification(ctx context.Context, to, code string) bool
	SendWelcome(ctx context.Context, to, name, role string) bool
	SendResetRequest(ctx context.Context, to, link string) bool
	SendResetSuccess(ctx context.Context, to string) bool
}

// ThrottledError is returned when too many logins were attempted for one
// email address.
type ThrottledError struct {
	Decision ratelimit.Decision
}

func (e *ThrottledError) Error() string { return "too many login attempts, try again later" }

// AuthConfig tunes AuthService.
type AuthConfig struct {
	// ClientURL prefixes the password reset links sent by email.
	ClientURL string
	// LoginLimit is the number of login attempts allowed per email in 15 minutes.
	LoginLimit int
	Flags      featureflags.Set
}

// AuthService handles signup, login and credential recovery for both
// principal kinds.
type AuthService struct {
	deps    Deps
	creds   domain.CredentialStore
	issuer  *auth.Issuer
	mailer  Mailer
	limiter ratelimit.Limiter
	cfg     AuthConfig
	logger  *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(deps Deps, issuer *auth.Issuer, mailer Mailer, limiter ratelimit.Limiter, cfg AuthConfig) *AuthService {
	deps = deps.withDefaults()
	return &AuthService{
		deps:    deps,
		creds:   deps.Store.Credentials(),
		issuer:  issuer,
		mailer:  mailer,
		limiter: limiter,
		cfg:     cfg,
		logger:  deps.Logger.With(slog.String("component", "auth")),
	}
}

// HRSignupInput registers a new organization and its first HR-Admin.
type HRSignupInput struct {
	FirstName        string `json:"firstname"`
	LastName         string `json:"lastname"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ContactNumber    string `json:"contactnumber"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	OrganizationURL  string `json:"OrganizationURL"`
	OrganizationMail string `json:"OrganizationMail"`
}

// SignupResult represents signup response
type SignupResult struct {
	PrincipalID string `json:"id"`
	TenantID    string `json:"organizationID"`
	EmailSent   bool   `json:"emailSent"`
}

// SignupHR creates the organization and its first HR-Admin in one step.
// Joining an existing organization requires an invitation by one of its
// HR-Admins instead.
func (s *AuthService) SignupHR(ctx context.Context, in HRSignupInput) (*SignupResult, error) {
	if err := domain.MissingFields(
		"firstname", in.FirstName, "lastname", in.LastName, "email", in.Email,
		"password", in.Password, "contactnumber", in.ContactNumber, "name", in.Name,
		"description", in.Description, "OrganizationURL", in.OrganizationURL,
		"OrganizationMail", in.OrganizationMail,
	); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(in.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}
	exists, err := s.creds.OrganizationExists(ctx, strings.TrimSpace(in.Name))
	if err != nil {
		return nil, fmt.Errorf("check organization: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("organization %q: %w", in.Name, domain.ErrConflict)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	code, expires, err := s.newVerification()
	if err != nil {
		return nil, err
	}

	org := &domain.Organization{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		URL:         in.OrganizationURL,
		Mail:        in.OrganizationMail,
	}
	admin := &domain.Principal{
		FirstName:             in.FirstName,
		LastName:              in.LastName,
		Email:                 email,
		PasswordHash:          hash,
		ContactNumber:         in.ContactNumber,
		Role:                  domain.RoleHRAdmin,
		VerificationCode:      code,
		VerificationExpiresAt: &expires,
	}
	if err := s.creds.RegisterOrganization(ctx, org, admin); err != nil {
		return nil, fmt.Errorf("register organization: %w", err)
	}

	s.logger.Info("organization registered",
		slog.String("tenant_id", org.ID),
		slog.String("hr_id", admin.ID),
	)
	s.deps.Audit.LogAction(ctx, org.ID, admin.ID, "signup", string(domain.RoleHRAdmin), admin.ID, "success", "organization created")

	return &SignupResult{
		PrincipalID: admin.ID,
		TenantID:    org.ID,
		EmailSent:   s.mailer.SendVerification(ctx, email, code),
	}, nil
}

// EmployeeSignupInput is what an HR-Admin provides to create an employee.
type EmployeeSignupInput struct {
	FirstName      string  `json:"firstname"`
	LastName       string  `json:"lastname"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	ContactNumber  string  `json:"contactnumber"`
	DepartmentID   string  `json:"department"`
	Position       string  `json:"position"`
	EmployeeCode   string  `json:"employeeId"`
	JoiningDate    *string `json:"joiningDate"`
	EmploymentType string  `json:"employmentType"`
	WorkLocation   string  `json:"workLocation"`
}

// SignupEmployee creates an employee in the calling HR-Admin's organization.
func (s *AuthService) SignupEmployee(ctx context.Context, in EmployeeSignupInput) (*SignupResult, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if !c.isHR() {
		return nil, domain.ErrForbidden
	}
	if err := domain.MissingFields(
		"firstname", in.FirstName, "lastname", in.LastName, "email", in.Email,
		"password", in.Password, "contactnumber", in.ContactNumber,
	); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(in.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}
	if err := requireDepartment(ctx, ts, in.DepartmentID); err != nil {
		return nil, err
	}
	joining, err := parseOptionalDate("joiningDate", in.JoiningDate)
	if err != nil {
		return nil, err
	}
	employment := domain.EmploymentType(in.EmploymentType)
	if employment == "" {
		employment = domain.EmploymentFullTime
	}
	if !employment.Valid() {
		return nil, domain.Invalid("unknown employment type %q", in.EmploymentType)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	code, expires, err := s.newVerification()
	if err != nil {
		return nil, err
	}

	e := &domain.Employee{
		Principal: domain.Principal{
			FirstName:             in.FirstName,
			LastName:              in.LastName,
			Email:                 email,
			PasswordHash:          hash,
			ContactNumber:         in.ContactNumber,
			Role:                  domain.RoleEmployee,
			VerificationCode:      code,
			VerificationExpiresAt: &expires,
		},
		DepartmentID:   in.DepartmentID,
		EmployeeCode:   in.EmployeeCode,
		Position:       in.Position,
		JoiningDate:    joining,
		EmploymentType: employment,
		Status:         domain.EmployeeActive,
		WorkLocation:   in.WorkLocation,
	}
	if err := ts.Employees().Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}

	s.deps.audit(ctx, c, "create", "employee", e.ID)
	s.deps.refresh(ctx, c)
	return &SignupResult{
		PrincipalID: e.ID,
		TenantID:    c.TenantID,
		EmailSent:   s.mailer.SendVerification(ctx, email, code),
	}, nil
}

// LoginResult is a successful login: the session plus the principal.
type LoginResult struct {
	Session   *auth.Session
	Principal *domain.Principal
}

// Login checks the password of the principal of role with email and issues
// a session. Unknown emails and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, role domain.Role, email, password string) (*LoginResult, error) {
	if err := domain.MissingFields("email", email, "password", password); err != nil {
		return nil, err
	}
	email = domain.NormalizeEmail(email)
	if err := s.throttle(ctx, role, email); err != nil {
		metrics.ObserveLogin(string(role), "throttled")
		return nil, err
	}

	p, err := s.creds.FindByEmail(ctx, role, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("find principal: %w", err)
		}
		s.logger.Info("login attempt with unknown email", slog.String("role", string(role)))
		return nil, s.loginFailed(ctx, role)
	}
	if !auth.CheckPassword(p.PasswordHash, password) {
		s.logger.Info("login failed with wrong password", slog.String("subject_id", p.ID))
		return nil, s.loginFailed(ctx, role)
	}
	if s.cfg.Flags.RequireVerifiedLogin && !p.IsVerified {
		metrics.ObserveLogin(string(role), "unverified")
		return nil, domain.ErrEmailNotVerified
	}

	sess, err := s.issuer.Issue(ctx, p)
	if err != nil {
		return nil, err
	}
	metrics.ObserveLogin(string(role), "success")
	s.deps.Audit.LogLogin(ctx, p.TenantID, p.ID, string(role), true)
	return &LoginResult{Session: sess, Principal: p}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, role domain.Role) error {
	metrics.ObserveLogin(string(role), "failure")
	s.deps.Audit.LogLogin(ctx, "", "", string(role), false)
	return domain.ErrInvalidCredentials
}

func (s *AuthService) throttle(ctx context.Context, role domain.Role, email string) error {
	if s.limiter == nil || s.cfg.LoginLimit <= 0 {
		return nil
	}
	d, err := s.limiter.Allow(ctx, "login:"+string(role)+":"+email, s.cfg.LoginLimit, loginWindow)
	if err != nil {
		// An unavailable limiter must not lock everyone out.
		s.logger.Warn("login rate limiter unavailable", slog.String("error", err.Error()))
		return nil
	}
	if !d.Allowed {
		return &ThrottledError{Decision: d}
	}
	return nil
}

// CurrentPrincipal returns the principal behind the request's session. It
// fails when the principal was deleted after the token was issued.
func (s *AuthService) CurrentPrincipal(ctx context.Context) (*domain.Principal, error) {
	c, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.creds.FindByID(ctx, c.Role, c.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	if p.TenantID != c.TenantID {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// VerifyEmail marks the principal owning the unexpired code as verified and
// reports whether the welcome email went out.
func (s *AuthService) VerifyEmail(ctx context.Context, role domain.Role, code string) (bool, error) {
	if err := domain.MissingFields("verificationcode", code); err != nil {
		return false, err
	}
	p, err := s.creds.FindByVerificationCode(ctx, role, strings.TrimSpace(code), s.deps.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.Invalid("invalid or expired verification code")
		}
		return false, err
	}
	p.IsVerified = true
	p.VerificationCode = ""
	p.VerificationExpiresAt = nil
	if err := s.creds.SaveCredentials(ctx, p); err != nil {
		return false, fmt.Errorf("save verification: %w", err)
	}
	return s.mailer.SendWelcome(ctx, p.Email, p.FirstName+" "+p.LastName, string(p.Role)), nil
}

// ResendVerification issues a fresh code to the principal of role with
// email. It needs no session so that an unverified principal can recover
// from an expired code when verified logins are required. Unknown addresses
// succeed without sending anything.
func (s *AuthService) ResendVerification(ctx context.Context, role domain.Role, email string) (bool, error) {
	if err := domain.MissingFields("email", email); err != nil {
		return false, err
	}
	p, err := s.creds.FindByEmail(ctx, role, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("verification resend for unknown email", slog.String("role", string(role)))
			return false, nil
		}
		return false, fmt.Errorf("find principal: %w", err)
	}
	if p.IsVerified {
		return false, fmt.Errorf("email already verified: %w", domain.ErrConflict)
	}
	code, expires, err := s.newVerification()
	if err != nil {
		return false, err
	}
	p.VerificationCode = code
	p.VerificationExpiresAt = &expires
	if err := s.creds.SaveCredentials(ctx, p); err != nil {
		return false, fmt.Errorf("save verification: %w", err)
	}
	return s.mailer.SendVerification(ctx, p.Email, code), nil
}

// IsVerified reports whether the signed-in principal confirmed its email.
func (s *AuthService) IsVerified(ctx context.Context) (bool, error) {
	p, err := s.CurrentPrincipal(ctx)
	if err != nil {
		return false, err
	}
	return p.IsVerified, nil
}

// ForgotPassword stores a reset token and mails the reset link. Unknown
// addresses succeed silently so the endpoint cannot be used to probe for
// accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, role domain.Role, email string) (bool, error) {
	if err := domain.MissingFields("email", email); err != nil {
		return false, err
	}
	p, err := s.creds.FindByEmail(ctx, role, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	token, err := auth.ResetToken()
	if err != nil {
		return false, err
	}
	expires := s.deps.Now().Add(resetTTL).UTC()
	p.ResetToken = token
	p.ResetExpiresAt = &expires
	if err := s.creds.SaveCredentials(ctx, p); err != nil {
		return false, fmt.Errorf("save reset token: %w", err)
	}
	return s.mailer.SendResetRequest(ctx, p.Email, s.resetLink(role, token)), nil
}

func (s *AuthService) resetLink(role domain.Role, token string) string {
	kind := "employee"
	if role == domain.RoleHRAdmin {
		kind = "HR"
	}
	return strings.TrimRight(s.cfg.ClientURL, "/") + "/auth/" + kind + "/resetpassword/" + token
}

// ResetPassword replaces the password of the principal owning the unexpired
// reset token.
func (s *AuthService) ResetPassword(ctx context.Context, role domain.Role, token, password string) (bool, error) {
	if err := domain.MissingFields("token", token, "password", password); err != nil {
		return false, err
	}
	if err := auth.ValidatePassword(password); err != nil {
		return false, err
	}
	p, err := s.creds.FindByResetToken(ctx, role, token, s.deps.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.Invalid("invalid or expired reset token")
		}
		return false, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	p.PasswordHash = hash
	p.ResetToken = ""
	p.ResetExpiresAt = nil
	if err := s.creds.SaveCredentials(ctx, p); err != nil {
		return false, fmt.Errorf("save password: %w", err)
	}
	s.deps.Audit.LogAction(ctx, p.TenantID, p.ID, "reset_password", string(role), p.ID, "success", "")
	return s.mailer.SendResetSuccess(ctx, p.Email), nil
}

// ChangePassword replaces the signed-in principal's password after checking
// the current one.
func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	if err := domain.MissingFields("oldPassword", current, "newPassword", next); err != nil {
		return err
	}
	p, err := s.CurrentPrincipal(ctx)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(p.PasswordHash, current) {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrInvalidCredentials)
	}
	if err := auth.ValidatePassword(next); err != nil {
		return err
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	p.PasswordHash = hash
	if err := s.creds.SaveCredentials(ctx, p); err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	s.logger.Info("password changed", slog.String("subject_id", p.ID))
	s.deps.Audit.LogAction(ctx, p.TenantID, p.ID, "change_password", string(p.Role), p.ID, "success", "")
	return nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	taken, err := s.creds.EmailTaken(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	return nil
}

func (s *AuthService) newVerification() (string, time.Time, error) {
	code, err := auth.VerificationCode()
	if err != nil {
		return "", time.Time{}, err
	}
	return code, s.deps.Now().Add(verificationTTL).UTC(), nil
}

// HRInput is what an HR-Admin provides to add another HR-Admin.
type HRInput struct {
	FirstName     string `json:"firstname"`
	LastName      string `json:"lastname"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ContactNumber string `json:"contactnumber"`
}

// AddHR creates another HR-Admin in the caller's organization.
func (s *AuthService) AddHR(ctx context.Context, in HRInput) (*SignupResult, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if !c.isHR() {
		return nil, domain.ErrForbidden
	}
	if err := domain.MissingFields(
		"firstname", in.FirstName, "lastname", in.LastName, "email", in.Email,
		"password", in.Password, "contactnumber", in.ContactNumber,
	); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(in.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	code, expires, err := s.newVerification()
	if err != nil {
		return nil, err
	}
	p := &domain.Principal{
		FirstName:             in.FirstName,
		LastName:              in.LastName,
		Email:                 email,
		PasswordHash:          hash,
		ContactNumber:         in.ContactNumber,
		Role:                  domain.RoleHRAdmin,
		VerificationCode:      code,
		VerificationExpiresAt: &expires,
	}
	if err := ts.HRAdmins().Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create HR: %w", err)
	}
	s.deps.audit(ctx, c, "create", "hr", p.ID)
	return &SignupResult{
		PrincipalID: p.ID,
		TenantID:    c.TenantID,
		EmailSent:   s.mailer.SendVerification(ctx, email, code),
	}, nil
}
