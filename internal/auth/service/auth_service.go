// Package service implements the authentication use cases: register, login,
// refresh-token rotation, email verification, and logout. Expected business
// failures are sentinel errors; infrastructure faults are logged and surfaced
// as generic per-operation errors so internal detail never reaches callers.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	auditdomain "user-auth-service/internal/audit/domain"
	"user-auth-service/internal/events"
	"user-auth-service/internal/mail"
	"user-auth-service/internal/ratelimit"
	"user-auth-service/internal/security"
	sessiondomain "user-auth-service/internal/session/domain"
	tokendomain "user-auth-service/internal/token/domain"
	userdomain "user-auth-service/internal/user/domain"
	"user-auth-service/internal/verification"
)

// Sentinel errors for the auth service; the handler maps them to HTTP codes.
// Messages are user-visible and deliberately generic on unauthenticated paths
// so callers cannot tell which check failed.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrAccountDeactivated = errors.New("Account has been deactivated")
	ErrEmailTaken         = errors.New("User with this email already exists")
	ErrInvalidToken       = errors.New("Invalid token")
	ErrTokenInvalid       = errors.New("Invalid or expired token")
	ErrUserNotFound       = errors.New("User not found")
	ErrTooManyAttempts    = errors.New("Too many login attempts. Please try again later.")
	ErrLoginFailed        = errors.New("Unable to complete login")
	ErrRefreshFailed      = errors.New("Unable to refresh token")
	ErrRegisterFailed     = errors.New("Unable to complete registration")
	ErrVerifyFailed       = errors.New("Unable to verify email")
)

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *userdomain.User) error
	Update(ctx context.Context, u *userdomain.User) error
}

// TokenRepo is the minimal refresh-token repository needed by the auth service.
type TokenRepo interface {
	GetByTokenHash(ctx context.Context, tokenHash string) (*tokendomain.RefreshToken, error)
	Create(ctx context.Context, t *tokendomain.RefreshToken) error
	Revoke(ctx context.Context, id string) error
	RevokeAllByUser(ctx context.Context, userID string) error
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	Create(ctx context.Context, s *sessiondomain.Session) error
	Terminate(ctx context.Context, id string) error
	TerminateAllByUser(ctx context.Context, userID string) error
	UpdateLastActivity(ctx context.Context, id string, at time.Time) error
}

// PasswordHasher is the hashing port. Validate enforces the password policy
// and must be checked before Hash is ever called.
type PasswordHasher interface {
	Hash(password []byte) (string, error)
	Compare(hash string, password []byte) error
	Validate(password string) error
}

// RequestMeta carries transport-level facts about the caller. Both fields may
// be empty.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuthResult holds the outcome of Register, Login, or Refresh.
type AuthResult struct {
	UserID       string
	Email        string
	Roles        []string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthService orchestrates the authentication use cases over its ports.
type AuthService struct {
	userRepo    UserRepo
	tokenRepo   TokenRepo
	sessionRepo SessionRepo
	hasher      PasswordHasher
	tokens      *security.TokenProvider
	limiter     ratelimit.Limiter
	verifier    verification.Store
	mailer      mail.Sender
	bus         events.Bus
	audit       Recorder
	loginPolicy ratelimit.Policy
}

// Recorder mirrors the audit recorder port. Nil-safe wrappers are not needed;
// pass a no-op implementation when auditing is disabled.
type Recorder interface {
	Record(ctx context.Context, userID, action, ipAddress, userAgent, metadata string)
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(
	userRepo UserRepo,
	tokenRepo TokenRepo,
	sessionRepo SessionRepo,
	hasher PasswordHasher,
	tokens *security.TokenProvider,
	limiter ratelimit.Limiter,
	verifier verification.Store,
	mailer mail.Sender,
	bus events.Bus,
	audit Recorder,
	loginPolicy ratelimit.Policy,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokens:      tokens,
		limiter:     limiter,
		verifier:    verifier,
		mailer:      mailer,
		bus:         bus,
		audit:       audit,
		loginPolicy: loginPolicy,
	}
}

// Register creates a user with the default USER role, issues a token pair,
// and kicks off best-effort verification email and events. The token pair is
// part of the registration contract; email and events are not.
func (s *AuthService) Register(ctx context.Context, email, password string, meta RequestMeta) (*AuthResult, error) {
	normalized, err := userdomain.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	exists, err := s.userRepo.Exists(ctx, normalized)
	if err != nil {
		log.Printf("auth: register existence check failed: %v", err)
		return nil, ErrRegisterFailed
	}
	if exists {
		return nil, ErrEmailTaken
	}
	// Policy check comes before hashing; the hasher is never invoked for a
	// password that fails policy.
	if err := s.hasher.Validate(password); err != nil {
		return nil, err
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		log.Printf("auth: register hash failed: %v", err)
		return nil, ErrRegisterFailed
	}
	user, err := userdomain.NewUser(normalized, hashed, []userdomain.Role{userdomain.RoleUser})
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Printf("auth: register save failed: %v", err)
		return nil, ErrRegisterFailed
	}
	result, err := s.issueTokenPair(ctx, user, meta)
	if err != nil {
		log.Printf("auth: register token issuance failed: %v", err)
		return nil, ErrRegisterFailed
	}

	s.sendVerification(ctx, user)
	events.PublishAsync(s.bus, events.NewUserRegistered(user.ID, user.Email))
	s.audit.Record(ctx, user.ID, auditdomain.ActionRegister, meta.IPAddress, meta.UserAgent, "")
	return result, nil
}

// Login authenticates email/password and returns a fresh token pair. The
// limiter is consulted before any hashing work so throttled clients cost
// nothing; a successful login resets the limiter key.
func (s *AuthService) Login(ctx context.Context, email, password string, meta RequestMeta) (*AuthResult, error) {
	key := loginKey(email)
	decision, err := s.limiter.Check(ctx, key, s.loginPolicy)
	if err != nil {
		log.Printf("auth: login rate-limit check failed: %v", err)
		return nil, ErrTooManyAttempts
	}
	if !decision.Allowed {
		s.audit.Record(ctx, "", auditdomain.ActionLoginThrottled, meta.IPAddress, meta.UserAgent, key)
		return nil, ErrTooManyAttempts
	}

	normalized, err := userdomain.NormalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		log.Printf("auth: login lookup failed: %v", err)
		return nil, ErrLoginFailed
	}
	if user == nil {
		s.audit.Record(ctx, "", auditdomain.ActionLoginFailure, meta.IPAddress, meta.UserAgent, normalized)
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		s.audit.Record(ctx, user.ID, auditdomain.ActionLoginFailure, meta.IPAddress, meta.UserAgent, "")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	user.UpdateLastLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("auth: login last-login persist failed: %v", err)
		return nil, ErrLoginFailed
	}
	if err := s.limiter.Reset(ctx, key); err != nil {
		log.Printf("auth: login limiter reset failed: %v", err)
	}

	result, err := s.issueTokenPair(ctx, user, meta)
	if err != nil {
		log.Printf("auth: login token issuance failed: %v", err)
		return nil, ErrLoginFailed
	}

	events.PublishAsync(s.bus, events.NewUserLoggedIn(user.ID, user.Email, meta.IPAddress))
	s.audit.Record(ctx, user.ID, auditdomain.ActionLoginSuccess, meta.IPAddress, meta.UserAgent, "")
	return result, nil
}

// Refresh exchanges a refresh token for a new pair, revoking the presented
// token so each refresh token is single-use. Presenting an already revoked
// token is treated as theft: every outstanding token and session for that
// user is revoked, and the caller still sees only the generic failure.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, meta RequestMeta) (*AuthResult, error) {
	if err := tokendomain.ValidateTokenShape(refreshToken); err != nil {
		return nil, ErrInvalidToken
	}
	if _, err := s.tokens.VerifyRefreshToken(refreshToken); err != nil {
		return nil, ErrTokenInvalid
	}
	record, err := s.tokenRepo.GetByTokenHash(ctx, security.HashRefreshToken(refreshToken))
	if err != nil {
		log.Printf("auth: refresh token lookup failed: %v", err)
		return nil, ErrRefreshFailed
	}
	if record == nil {
		return nil, ErrTokenInvalid
	}
	if record.Revoked {
		s.handleTokenReuse(ctx, record, meta)
		return nil, ErrTokenInvalid
	}
	if !record.Valid() {
		return nil, ErrTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, record.UserID)
	if err != nil {
		log.Printf("auth: refresh user lookup failed: %v", err)
		return nil, ErrRefreshFailed
	}
	if user == nil {
		log.Printf("auth: refresh token %s references missing user %s", record.ID, record.UserID)
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	// Best-effort revoke: a failed write must not strand the client without
	// tokens, but the inconsistency is logged for reconciliation.
	if err := s.tokenRepo.Revoke(ctx, record.ID); err != nil {
		log.Printf("auth: refresh revoke of token %s failed: %v", record.ID, err)
	}

	result, err := s.rotateTokenPair(ctx, user, record.SessionID)
	if err != nil {
		log.Printf("auth: refresh token issuance failed: %v", err)
		return nil, ErrRefreshFailed
	}
	if record.SessionID != "" {
		if err := s.sessionRepo.UpdateLastActivity(ctx, record.SessionID, time.Now().UTC()); err != nil {
			log.Printf("auth: refresh session touch failed: %v", err)
		}
	}
	s.audit.Record(ctx, user.ID, auditdomain.ActionTokenRefresh, meta.IPAddress, meta.UserAgent, "")
	return result, nil
}

// VerifyEmail redeems a verification token for the user and marks the email
// verified. The token is single-use; verifying twice fails on the entity's
// idempotence guard.
func (s *AuthService) VerifyEmail(ctx context.Context, userID, token string, meta RequestMeta) error {
	boundUserID, err := s.verifier.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, verification.ErrTokenNotFound) {
			return ErrTokenInvalid
		}
		log.Printf("auth: verify-email token consume failed: %v", err)
		return ErrVerifyFailed
	}
	if boundUserID != userID {
		return ErrTokenInvalid
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("auth: verify-email user lookup failed: %v", err)
		return ErrVerifyFailed
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := user.VerifyEmail(); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("auth: verify-email persist failed: %v", err)
		return ErrVerifyFailed
	}
	events.PublishAsync(s.bus, events.NewEmailVerified(user.ID, user.Email))
	s.audit.Record(ctx, user.ID, auditdomain.ActionEmailVerified, meta.IPAddress, meta.UserAgent, "")
	return nil
}

// Logout revokes the presented refresh token and terminates its session.
// Invalid or unknown tokens are a silent no-op; logout never fails the caller
// for a credential that is already unusable.
func (s *AuthService) Logout(ctx context.Context, refreshToken string, meta RequestMeta) error {
	if tokendomain.ValidateTokenShape(refreshToken) != nil {
		return nil
	}
	if _, err := s.tokens.VerifyRefreshToken(refreshToken); err != nil {
		return nil
	}
	record, err := s.tokenRepo.GetByTokenHash(ctx, security.HashRefreshToken(refreshToken))
	if err != nil {
		log.Printf("auth: logout token lookup failed: %v", err)
		return nil
	}
	if record == nil {
		return nil
	}
	if err := s.tokenRepo.Revoke(ctx, record.ID); err != nil {
		log.Printf("auth: logout revoke of token %s failed: %v", record.ID, err)
	}
	if record.SessionID != "" {
		if err := s.sessionRepo.Terminate(ctx, record.SessionID); err != nil {
			log.Printf("auth: logout session terminate failed: %v", err)
		}
	}
	s.audit.Record(ctx, record.UserID, auditdomain.ActionLogout, meta.IPAddress, meta.UserAgent, "")
	return nil
}

// issueTokenPair creates a session, signs an access and refresh token for the
// user, and persists the refresh-token record bound to the session.
func (s *AuthService) issueTokenPair(ctx context.Context, user *userdomain.User, meta RequestMeta) (*AuthResult, error) {
	sess := sessiondomain.NewSession(user.ID, meta.IPAddress, meta.UserAgent, time.Now().UTC().Add(s.tokens.RefreshTTL()))
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return s.rotateTokenPair(ctx, user, sess.ID)
}

// rotateTokenPair signs a new access and refresh token for the user under an
// existing session and persists the refresh-token record.
func (s *AuthService) rotateTokenPair(ctx context.Context, user *userdomain.User, sessionID string) (*AuthResult, error) {
	accessToken, accessExp, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.RoleStrings())
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExp, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	record, err := tokendomain.NewRefreshToken(user.ID, sessionID, security.HashRefreshToken(refreshToken), refreshExp)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return &AuthResult{
		UserID:       user.ID,
		Email:        user.Email,
		Roles:        user.RoleStrings(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp,
	}, nil
}

// handleTokenReuse responds to a revoked token being presented again. All of
// the user's outstanding tokens and sessions are revoked.
func (s *AuthService) handleTokenReuse(ctx context.Context, record *tokendomain.RefreshToken, meta RequestMeta) {
	log.Printf("auth: revoked refresh token %s presented again for user %s", record.ID, record.UserID)
	if err := s.tokenRepo.RevokeAllByUser(ctx, record.UserID); err != nil {
		log.Printf("auth: reuse response token revocation failed: %v", err)
	}
	if err := s.sessionRepo.TerminateAllByUser(ctx, record.UserID); err != nil {
		log.Printf("auth: reuse response session termination failed: %v", err)
	}
	events.PublishAsync(s.bus, events.NewTokenReuse(record.UserID))
	s.audit.Record(ctx, record.UserID, auditdomain.ActionTokenReuse, meta.IPAddress, meta.UserAgent, record.ID)
}

// sendVerification issues a verification token and emails it. Best-effort.
func (s *AuthService) sendVerification(ctx context.Context, user *userdomain.User) {
	token, err := s.verifier.Issue(ctx, user.ID)
	if err != nil {
		log.Printf("auth: verification token issue failed: %v", err)
		return
	}
	if err := s.mailer.SendVerificationEmail(ctx, user.Email, token); err != nil {
		log.Printf("auth: verification email to %s failed: %v", user.Email, err)
	}
}

func loginKey(email string) string {
	return "login:" + strings.ToLower(strings.TrimSpace(email))
}
