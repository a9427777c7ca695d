package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/application/security"
	tokenapp "github.com/mvbri/sistema-gestion-soporte-sub000/internal/application/token"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/infrastructure/sns"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/pkg/id"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldFullName       = "full_name"
	fieldPhone          = "phone"
	fieldIncidentAreaID = "incident_area_id"
	fieldEmailVerified  = "email_verified"
	fieldPasswordHash   = "password_hash"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string
	User  *domain.User
}

type resetPasswordInput struct {
	Password string `validate:"required,strongpwd"`
}

// Service orchestrates every identity operation. It is the only component
// that mutates credential state.
type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) error
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	VerifyEmail(ctx context.Context, token string) (alreadyVerified bool, err error)
	ResendVerification(ctx context.Context, email string) error
	RequestPasswordRecovery(ctx context.Context, email string) error
	GetSecurityQuestions(ctx context.Context, email string) (q1, q2 string, err error)
	VerifySecurityAnswers(ctx context.Context, email, answer1, answer2 string) (resetToken string, err error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	SetSecurityQuestions(ctx context.Context, userID string, req domain.SetSecurityQuestionsRequest) error
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type areaStore interface {
	Get(ctx context.Context, areaID string) (*domain.IncidentArea, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type jwtSigner interface {
	Sign(userID, role string) (string, error)
}

type service struct {
	users     userStore
	areas     areaStore
	issuer    tokenapp.Issuer
	questions security.Verifier
	mailer    mailer
	smsSender sns.SMSSender
	signer    jwtSigner
	baseURL   string
}

type ServiceDeps struct {
	UserRepo  userStore
	AreaRepo  areaStore
	Issuer    tokenapp.Issuer
	Questions security.Verifier
	Mailer    mailer
	SMSSender sns.SMSSender
	Signer    jwtSigner
	// BaseURL is the public URL prefix used in verification links.
	BaseURL string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:     deps.UserRepo,
		areas:     deps.AreaRepo,
		issuer:    deps.Issuer,
		questions: deps.Questions,
		mailer:    deps.Mailer,
		smsSender: deps.SMSSender,
		signer:    deps.Signer,
		baseURL:   deps.BaseURL,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) error {
	if err := validate.Struct(&req); err != nil {
		return fmt.Errorf("%s: %w", err, domain.ErrValidation)
	}
	email := normalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		// Only a confirmed miss clears the way: a store failure must not
		// slip a duplicate email in.
		return err
	}
	if _, err := s.areas.Get(ctx, req.IncidentAreaID); err != nil {
		return fmt.Errorf("unknown incident area: %w", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:         id.New(),
		Email:          email,
		PasswordHash:   string(hash),
		FullName:       strings.TrimSpace(req.FullName),
		Phone:          req.Phone,
		Role:           domain.RoleEndUser,
		IncidentAreaID: req.IncidentAreaID,
		EmailVerified:  false,
		Enable:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return err
	}
	// Token issuance and delivery are best-effort: the account exists either
	// way, and the resend flow covers a lost first email.
	s.sendVerificationMail(ctx, u)
	return nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrValidation)
	}
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		// Same error for unknown user and bad password.
		return nil, fmt.Errorf("login failed: %w", domain.ErrAuth)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("login failed: %w", domain.ErrAuth)
	}
	if !u.Enable {
		return nil, fmt.Errorf("login failed: %w", domain.ErrAuth)
	}
	if !u.EmailVerified {
		return nil, fmt.Errorf("account %s: %w", u.UserID, domain.ErrVerificationRequired)
	}
	if s.signer == nil {
		return nil, errors.New("jwt signer not configured")
	}
	bearer, err := s.signer.Sign(u.UserID, u.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: bearer, User: u}, nil
}

func (s *service) VerifyEmail(ctx context.Context, token string) (bool, error) {
	t, err := s.issuer.Consume(ctx, token, domain.PurposeEmailVerify)
	if err != nil {
		// A re-clicked link on an already verified account degrades to an
		// "already verified" success instead of an error.
		if errors.Is(err, domain.ErrTokenConsumed) && t != nil {
			if u, uerr := s.users.Get(ctx, t.UserID); uerr == nil && u.EmailVerified {
				return true, nil
			}
		}
		if errors.Is(err, domain.ErrTokenConsumed) {
			return false, fmt.Errorf("token already used: %w", domain.ErrInvalidToken)
		}
		return false, err
	}
	if err := s.users.Update(ctx, t.UserID, map[string]interface{}{fieldEmailVerified: true}); err != nil {
		return false, err
	}
	return false, nil
}

func (s *service) ResendVerification(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Non-enumeration contract: unknown emails get the same
			// success-shaped answer as registered ones.
			slog.Debug("resend verification for unknown email")
			return nil
		}
		return err
	}
	if u.EmailVerified {
		return nil
	}
	s.sendVerificationMail(ctx, u)
	return nil
}

func (s *service) RequestPasswordRecovery(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Debug("password recovery for unknown email")
			return nil
		}
		return err
	}
	opaque, err := s.issuer.Issue(ctx, u.UserID, domain.PurposePasswordReset, domain.SourceEmail)
	if err != nil {
		if errors.Is(err, domain.ErrCooldown) {
			return nil
		}
		return err
	}
	body := fmt.Sprintf("Para restablecer su contrasena visite:\n%s/reset-password?token=%s\n\nEl enlace expira pronto. Si no solicito este cambio, ignore este mensaje.", s.baseURL, opaque)
	if err := s.mailer.SendEmail(u.Email, "Recuperacion de contrasena", body); err != nil {
		slog.Warn("failed to send recovery email", "user_id", u.UserID, "err", err)
	}
	return nil
}

func (s *service) GetSecurityQuestions(ctx context.Context, email string) (string, string, error) {
	return s.questions.GetQuestions(ctx, normalizeEmail(email))
}

func (s *service) VerifySecurityAnswers(ctx context.Context, email, answer1, answer2 string) (string, error) {
	return s.questions.VerifyAnswers(ctx, normalizeEmail(email), answer1, answer2)
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validate.Struct(&resetPasswordInput{Password: newPassword}); err != nil {
		return fmt.Errorf("%s: %w", err, domain.ErrValidation)
	}
	t, err := s.issuer.Consume(ctx, token, domain.PurposePasswordReset)
	if err != nil {
		if errors.Is(err, domain.ErrTokenConsumed) {
			return fmt.Errorf("token already used: %w", domain.ErrInvalidToken)
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, t.UserID, map[string]interface{}{fieldPasswordHash: string(hash)}); err != nil {
		return err
	}
	s.sendPasswordChangedAlert(ctx, t.UserID)
	return nil
}

func (s *service) SetSecurityQuestions(ctx context.Context, userID string, req domain.SetSecurityQuestionsRequest) error {
	if err := validate.Struct(&req); err != nil {
		return fmt.Errorf("%s: %w", err, domain.ErrValidation)
	}
	return s.questions.SetQuestions(ctx, userID, req)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrValidation)
	}
	// Email and role are immutable through this path: changing the email
	// would break the verification invariant, and role changes are an
	// administrative action.
	if req.IncidentAreaID == "" {
		return nil, fmt.Errorf("profile update rejected: %w", domain.ErrAreaRequired)
	}
	if _, err := s.areas.Get(ctx, req.IncidentAreaID); err != nil {
		return nil, fmt.Errorf("unknown incident area: %w", domain.ErrValidation)
	}
	updates := map[string]interface{}{
		fieldFullName:       strings.TrimSpace(req.FullName),
		fieldIncidentAreaID: req.IncidentAreaID,
	}
	if req.Phone != nil {
		updates[fieldPhone] = *req.Phone
	}
	if err := s.users.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, userID)
}

func (s *service) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) sendVerificationMail(ctx context.Context, u *domain.User) {
	opaque, err := s.issuer.Issue(ctx, u.UserID, domain.PurposeEmailVerify, domain.SourceEmail)
	if err != nil {
		if !errors.Is(err, domain.ErrCooldown) {
			slog.Warn("failed to issue verification token", "user_id", u.UserID, "err", err)
		}
		return
	}
	body := fmt.Sprintf("Bienvenido al sistema de soporte.\n\nConfirme su correo visitando:\n%s/verify-email?token=%s", s.baseURL, opaque)
	if err := s.mailer.SendEmail(u.Email, "Confirme su correo", body); err != nil {
		slog.Warn("failed to send verification email", "user_id", u.UserID, "err", err)
	}
}

func (s *service) sendPasswordChangedAlert(ctx context.Context, userID string) {
	if s.smsSender == nil {
		return
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil || u.Phone == nil {
		return
	}
	if err := s.smsSender.SendSMS(ctx, *u.Phone, "Su contrasena del sistema de soporte fue cambiada. Si no fue usted, contacte al administrador."); err != nil {
		slog.Warn("failed to send password-change alert", "user_id", userID, "err", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
