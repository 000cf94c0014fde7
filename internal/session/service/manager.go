package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"business-nexus/backend/internal/audit"
	auditdomain "business-nexus/backend/internal/audit/domain"
	"business-nexus/backend/internal/devotp"
	"business-nexus/backend/internal/kv"
	"business-nexus/backend/internal/mfa"
	mfadomain "business-nexus/backend/internal/mfa/domain"
	"business-nexus/backend/internal/mfa/mail"
	mfarepo "business-nexus/backend/internal/mfa/repository"
	"business-nexus/backend/internal/notify"
	"business-nexus/backend/internal/platform/apperr"
	"business-nexus/backend/internal/security"
	"business-nexus/backend/internal/session/domain"
	userdomain "business-nexus/backend/internal/user/domain"
	userrepo "business-nexus/backend/internal/user/repository"
)

// Storage keys in the client's key-value namespace.
const (
	UserKey       = "business_nexus_user"
	ResetTokenKey = "business_nexus_reset_token"
)

// User-facing failure messages.
const (
	MsgInvalidCredentials = "invalid credentials or user not found"
	MsgEmailInUse         = "email already in use"
	MsgUserNotFound       = "user not found"
	MsgNoAccountForEmail  = "no account found with this email"
	MsgInvalidResetToken  = "invalid or expired reset token"
	MsgInvalidCode        = "invalid or expired verification code"
	MsgSignInRequired     = "sign in before verifying a second factor"
	msgInternal           = "something went wrong, please try again"
)

// Success notifications.
const (
	MsgLoggedIn             = "Successfully logged in!"
	MsgRegistered           = "Account created successfully!"
	MsgLoggedOut            = "Logged out successfully"
	MsgProfileUpdated       = "Profile updated successfully"
	MsgResetSent            = "Password reset instructions sent to your email"
	MsgPasswordReset        = "Password reset successfully"
	MsgCodeSent             = "Verification code sent to your email"
	MsgSecondFactorVerified = "Two-factor verification successful"
)

const avatarBase = "https://ui-avatars.com/api/"

// ResetTokens issues and checks password-reset tokens. *security.TokenProvider implements it.
type ResetTokens interface {
	IssueReset(email string) (string, time.Time, error)
	ValidateReset(token string) (string, error)
}

// Challenge is a started second-factor verification. Code is set only when the
// manager is configured to return codes to the client; otherwise it is mailed.
type Challenge struct {
	ID        string    `json:"challengeId"`
	ExpiresAt time.Time `json:"expiresAt"`
	Code      string    `json:"code,omitempty"`
}

// Manager owns the session of one client. Operations are serialized; Current may be
// called while an operation is in flight and then reports Loading.
type Manager struct {
	clientID  string
	users     userrepo.Repository
	store     kv.Store
	notifier  notify.Notifier
	tokens    ResetTokens
	log       *zap.Logger
	audit     audit.AuditLogger
	latency   time.Duration
	sleep     func(time.Duration)
	now       func() time.Time
	ops       metric.Int64Counter
	hasher    *security.Hasher
	creds     userrepo.CredentialStore
	challenge mfarepo.Repository
	otpTTL    time.Duration
	returnOTP bool
	mail      mail.Sender
	devOTP    devotp.Store

	opMu  sync.Mutex
	mu    sync.RWMutex
	state domain.Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithClientID tags notifications and challenges with the owning client id.
func WithClientID(id string) Option { return func(m *Manager) { m.clientID = id } }

// WithLatency delays every simulated network operation by d. The delay cannot be cancelled.
func WithLatency(d time.Duration) Option { return func(m *Manager) { m.latency = d } }

// WithLogger sets the logger for storage failures.
func WithLogger(l *zap.Logger) Option { return func(m *Manager) { m.log = l } }

// WithAudit records session events through a.
func WithAudit(a audit.AuditLogger) Option { return func(m *Manager) { m.audit = a } }

// WithClock replaces time.Now and time.Sleep. Used by tests.
func WithClock(now func() time.Time, sleep func(time.Duration)) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
		if sleep != nil {
			m.sleep = sleep
		}
	}
}

// WithMetrics counts operations on nexus.session.operations{operation,outcome}.
func WithMetrics(ops metric.Int64Counter) Option { return func(m *Manager) { m.ops = ops } }

// WithPasswordVerification stores bcrypt hashes on register and reset and checks them on login.
// Without it passwords are accepted but never checked.
func WithPasswordVerification(h *security.Hasher, creds userrepo.CredentialStore) Option {
	return func(m *Manager) {
		m.hasher = h
		m.creds = creds
	}
}

// WithSecondFactor sets the challenge repository and code lifetime. returnCode echoes the
// code in BeginSecondFactor's result for local development.
func WithSecondFactor(repo mfarepo.Repository, ttl time.Duration, returnCode bool) Option {
	return func(m *Manager) {
		m.challenge = repo
		if ttl > 0 {
			m.otpTTL = ttl
		}
		m.returnOTP = returnCode
	}
}

// WithMail delivers second-factor codes and reset tokens through s.
func WithMail(s mail.Sender) Option { return func(m *Manager) { m.mail = s } }

// WithDevOTPStore keeps returned codes in s for dev-only retrieval. Only consulted when
// codes are returned to the client.
func WithDevOTPStore(s devotp.Store) Option { return func(m *Manager) { m.devOTP = s } }

// NewManager returns a Manager over the shared directory and the client's own store.
// The session reports Loading until Restore has run.
func NewManager(users userrepo.Repository, store kv.Store, notifier notify.Notifier, tokens ResetTokens, opts ...Option) *Manager {
	m := &Manager{
		users:     users,
		store:     store,
		notifier:  notifier,
		tokens:    tokens,
		log:       zap.NewNop(),
		sleep:     time.Sleep,
		now:       func() time.Time { return time.Now().UTC() },
		challenge: mfarepo.NewMemoryRepository(),
		otpTTL:    mfarepo.DefaultChallengeTTL,
		state:     domain.Session{Loading: true},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.notifier == nil {
		m.notifier = notify.Nop{}
	}
	if m.mail == nil {
		m.mail = mail.NewLogSender(m.log)
	}
	return m
}

// NewOperationCounter creates the counter passed to WithMetrics.
func NewOperationCounter(meter metric.Meter) (metric.Int64Counter, error) {
	return meter.Int64Counter("nexus.session.operations",
		metric.WithDescription("Session manager operations by outcome"))
}

// Current returns a copy of the session.
func (m *Manager) Current() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Restore hydrates the session from the stored user record. A record that cannot be
// decoded is deleted. Loading is false afterwards.
func (m *Manager) Restore(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	defer m.setLoading(false)

	raw, ok, err := m.store.Get(ctx, UserKey)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !ok {
		return nil
	}
	var u userdomain.User
	if err := json.Unmarshal(raw, &u); err != nil || u.Validate() != nil {
		m.log.Warn("discarding unreadable stored user", zap.String("client_id", m.clientID))
		if err := m.store.Delete(ctx, UserKey); err != nil {
			return fmt.Errorf("restore session: %w", err)
		}
		return nil
	}
	m.mu.Lock()
	m.state.User = &u
	m.state.SecondFactorVerified = false
	m.mu.Unlock()
	return nil
}

// Login signs in the directory user matching both email and role. The password is only
// checked when password verification is enabled.
func (m *Manager) Login(ctx context.Context, email, password string, role userdomain.Role) (*userdomain.User, error) {
	const op = "login"
	m.begin()
	defer m.end()

	u, err := m.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, m.fail(ctx, op, err)
	}
	if u == nil || u.Role != role {
		m.auditEvent(ctx, "", auditdomain.ActionLoginFailure, auditdomain.ResourceSession, metadata("role", string(role)))
		return nil, m.fail(ctx, op, apperr.Authentication(MsgInvalidCredentials))
	}
	if m.hasher != nil {
		if err := m.checkPassword(ctx, u.ID, password); err != nil {
			m.auditEvent(ctx, u.ID, auditdomain.ActionLoginFailure, auditdomain.ResourceSession, metadata("role", string(role)))
			return nil, m.fail(ctx, op, err)
		}
	}
	if err := m.persistUser(ctx, u); err != nil {
		return nil, m.fail(ctx, op, err)
	}
	m.signIn(u)
	m.auditEvent(ctx, u.ID, auditdomain.ActionLogin, auditdomain.ResourceSession, metadata("role", string(u.Role)))
	m.succeed(ctx, op, u.ID, MsgLoggedIn)
	return u.Clone(), nil
}

// Register appends a new user to the directory and signs it in. The id is the role's
// initial followed by the directory size plus one, bumped until unused.
func (m *Manager) Register(ctx context.Context, name, email, password string, role userdomain.Role) (*userdomain.User, error) {
	const op = "register"
	m.begin()
	defer m.end()

	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if !role.Valid() {
		return nil, m.fail(ctx, op, apperr.Validation(userdomain.ErrInvalidRole.Error()))
	}
	if email == "" {
		return nil, m.fail(ctx, op, apperr.Validation("email is required"))
	}
	existing, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, m.fail(ctx, op, err)
	}
	if existing != nil {
		return nil, m.fail(ctx, op, apperr.Validation(MsgEmailInUse))
	}
	id, err := m.nextID(ctx, role)
	if err != nil {
		return nil, m.fail(ctx, op, err)
	}
	u := &userdomain.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      role,
		AvatarURL: AvatarURL(name),
		Bio:       "",
		IsOnline:  true,
		CreatedAt: m.now(),
	}
	var hash string
	if m.hasher != nil {
		if hash, err = m.hasher.Hash(password); err != nil {
			return nil, m.fail(ctx, op, err)
		}
	}
	// The stored record is written first so a storage failure leaves the directory
	// untouched; later failures restore the previous record.
	prev, err := m.snapshotUser(ctx)
	if err != nil {
		return nil, m.fail(ctx, op, err)
	}
	if err := m.persistUser(ctx, u); err != nil {
		return nil, m.fail(ctx, op, err)
	}
	if err := m.users.Create(ctx, u); err != nil {
		m.restoreUser(ctx, prev)
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil, m.fail(ctx, op, apperr.Validation(MsgEmailInUse))
		}
		return nil, m.fail(ctx, op, err)
	}
	if m.hasher != nil {
		if err := m.creds.SetPasswordHash(ctx, u.ID, hash); err != nil {
			if derr := m.users.Delete(ctx, u.ID); derr != nil {
				m.log.Error("roll back registered user", zap.String("user_id", u.ID), zap.Error(derr))
			}
			m.restoreUser(ctx, prev)
			return nil, m.fail(ctx, op, err)
		}
	}
	m.signIn(u)
	m.auditEvent(ctx, u.ID, auditdomain.ActionRegister, auditdomain.ResourceUser, metadata("role", string(u.Role)))
	m.succeed(ctx, op, u.ID, MsgRegistered)
	return u.Clone(), nil
}

// Logout clears the session and its stored record. It always succeeds; a storage
// failure is logged.
func (m *Manager) Logout(ctx context.Context) {
	const op = "logout"
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	var userID string
	if m.state.User != nil {
		userID = m.state.User.ID
	}
	m.state.User = nil
	m.state.SecondFactorVerified = false
	m.mu.Unlock()

	if err := m.store.Delete(ctx, UserKey); err != nil {
		m.log.Error("delete stored user", zap.String("client_id", m.clientID), zap.Error(err))
	}
	if userID != "" {
		m.auditEvent(ctx, userID, auditdomain.ActionLogout, auditdomain.ResourceSession, "")
	}
	m.succeed(ctx, op, userID, MsgLoggedOut)
}

// UpdateProfile merges patch onto the directory record for userID. When userID is the
// signed-in user the session copy and the stored record receive the same merged value.
func (m *Manager) UpdateProfile(ctx context.Context, userID string, patch userdomain.Patch) (*userdomain.User, error) {
	const op = "update_profile"
	m.begin()
	defer m.end()

	existing, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return nil, m.fail(ctx, op, err)
	}
	if existing == nil {
		return nil, m.fail(ctx, op, apperr.NotFound(MsgUserNotFound))
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" {
			return nil, m.fail(ctx, op, apperr.Validation("email is required"))
		}
		other, err := m.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, m.fail(ctx, op, err)
		}
		if other != nil && other.ID != userID {
			return nil, m.fail(ctx, op, apperr.Validation(MsgEmailInUse))
		}
		patch.Email = &email
	}
	merged := patch.Apply(*existing)
	current := m.isCurrent(userID)
	var prev storedUser
	if current {
		if prev, err = m.snapshotUser(ctx); err != nil {
			return nil, m.fail(ctx, op, err)
		}
		if err := m.persistUser(ctx, &merged); err != nil {
			return nil, m.fail(ctx, op, err)
		}
	}
	if err := m.users.Update(ctx, &merged); err != nil {
		if current {
			m.restoreUser(ctx, prev)
		}
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil, m.fail(ctx, op, apperr.Validation(MsgEmailInUse))
		}
		return nil, m.fail(ctx, op, err)
	}
	if current {
		m.mu.Lock()
		m.state.User = merged.Clone()
		m.mu.Unlock()
	}
	m.auditEvent(ctx, userID, auditdomain.ActionProfileUpdate, auditdomain.ResourceUser, "")
	m.succeed(ctx, op, userID, MsgProfileUpdated)
	return merged.Clone(), nil
}

// ForgotPassword issues a reset token for the account holding email, stores its hash
// under the reset key, replacing any earlier token, and mails the token to the account.
// The token is also returned so development setups can expose it.
func (m *Manager) ForgotPassword(ctx context.Context, email string) (string, error) {
	const op = "forgot_password"
	m.begin()
	defer m.end()

	u, err := m.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", m.fail(ctx, op, err)
	}
	if u == nil {
		return "", m.fail(ctx, op, apperr.NotFound(MsgNoAccountForEmail))
	}
	token, _, err := m.tokens.IssueReset(u.Email)
	if err != nil {
		return "", m.fail(ctx, op, err)
	}
	if err := m.store.Set(ctx, ResetTokenKey, []byte(security.HashToken(token))); err != nil {
		return "", m.fail(ctx, op, err)
	}
	if err := m.mail.SendResetToken(ctx, u.Email, token); err != nil {
		if derr := m.store.Delete(ctx, ResetTokenKey); derr != nil {
			m.log.Error("delete undelivered reset token", zap.String("client_id", m.clientID), zap.Error(derr))
		}
		return "", m.fail(ctx, op, err)
	}
	m.auditEvent(ctx, u.ID, auditdomain.ActionPasswordResetRequest, auditdomain.ResourceUser, "")
	m.succeed(ctx, op, u.ID, MsgResetSent)
	return token, nil
}

// ResetPassword accepts token only if it matches the stored one and is still valid,
// then deletes the stored token. The new password is stored only when password
// verification is enabled.
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	const op = "reset_password"
	m.begin()
	defer m.end()

	stored, ok, err := m.store.Get(ctx, ResetTokenKey)
	if err != nil {
		return m.fail(ctx, op, err)
	}
	if !ok || !security.TokenHashEqual(token, string(stored)) {
		return m.fail(ctx, op, apperr.Authentication(MsgInvalidResetToken))
	}
	email, err := m.tokens.ValidateReset(token)
	if err != nil {
		return m.fail(ctx, op, apperr.Authentication(MsgInvalidResetToken))
	}
	u, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		return m.fail(ctx, op, err)
	}
	if m.hasher != nil && u != nil {
		hash, err := m.hasher.Hash(newPassword)
		if err != nil {
			return m.fail(ctx, op, err)
		}
		if err := m.creds.SetPasswordHash(ctx, u.ID, hash); err != nil {
			return m.fail(ctx, op, err)
		}
	}
	if err := m.store.Delete(ctx, ResetTokenKey); err != nil {
		return m.fail(ctx, op, err)
	}
	var userID string
	if u != nil {
		userID = u.ID
	}
	m.auditEvent(ctx, userID, auditdomain.ActionPasswordReset, auditdomain.ResourceUser, "")
	m.succeed(ctx, op, userID, MsgPasswordReset)
	return nil
}

// BeginSecondFactor starts a verification for the signed-in user. The code is mailed to
// the user, or, when codes are returned to the client, echoed in the result and kept in
// the dev store instead. It never appears in notifications or logs.
func (m *Manager) BeginSecondFactor(ctx context.Context) (*Challenge, error) {
	const op = "begin_second_factor"
	m.begin()
	defer m.end()

	u := m.currentUser()
	if u == nil {
		return nil, m.fail(ctx, op, apperr.Authentication(MsgSignInRequired))
	}
	code, err := mfa.GenerateOTP()
	if err != nil {
		return nil, m.fail(ctx, op, err)
	}
	now := m.now()
	ch := &mfadomain.Challenge{
		ID:        uuid.New().String(),
		UserID:    u.ID,
		ClientID:  m.clientID,
		CodeHash:  mfa.HashOTP(code),
		ExpiresAt: now.Add(m.otpTTL),
		CreatedAt: now,
	}
	if err := m.challenge.Create(ctx, ch); err != nil {
		return nil, m.fail(ctx, op, err)
	}
	out := &Challenge{ID: ch.ID, ExpiresAt: ch.ExpiresAt}
	if m.returnOTP {
		out.Code = code
		if m.devOTP != nil {
			m.devOTP.Put(ctx, ch.ID, code, ch.ExpiresAt)
		}
	} else if err := m.mail.SendOTP(ctx, u.Email, code); err != nil {
		m.discardChallenge(ctx, ch.ID)
		return nil, m.fail(ctx, op, err)
	}
	m.succeed(ctx, op, u.ID, MsgCodeSent)
	return out, nil
}

// VerifySecondFactor answers a challenge started by this client for the signed-in user.
// A wrong code leaves the challenge open until it has failed MaxAttempts times, after
// which it is discarded. Expiry is judged by the manager's clock.
func (m *Manager) VerifySecondFactor(ctx context.Context, challengeID, code string) error {
	const op = "verify_second_factor"
	m.begin()
	defer m.end()

	u := m.currentUser()
	if u == nil {
		return m.fail(ctx, op, apperr.Authentication(MsgSignInRequired))
	}
	ch, err := m.challenge.GetByID(ctx, challengeID)
	if err != nil {
		return m.fail(ctx, op, err)
	}
	if ch == nil || ch.UserID != u.ID || ch.ClientID != m.clientID {
		return m.fail(ctx, op, apperr.Authentication(MsgInvalidCode))
	}
	if ch.Expired(m.now()) || ch.Exhausted() {
		m.discardChallenge(ctx, ch.ID)
		return m.fail(ctx, op, apperr.Authentication(MsgInvalidCode))
	}
	if !mfa.OTPEqual(code, ch.CodeHash) {
		n, err := m.challenge.IncrementAttempts(ctx, ch.ID)
		if err != nil {
			return m.fail(ctx, op, err)
		}
		if n >= mfadomain.MaxAttempts {
			m.discardChallenge(ctx, ch.ID)
		}
		m.auditEvent(ctx, u.ID, auditdomain.ActionSecondFactorFailure, auditdomain.ResourceSession, metadata("attempts", strconv.Itoa(n)))
		return m.fail(ctx, op, apperr.Authentication(MsgInvalidCode))
	}
	if err := m.challenge.Delete(ctx, ch.ID); err != nil {
		return m.fail(ctx, op, err)
	}
	if m.devOTP != nil {
		m.devOTP.Delete(ctx, ch.ID)
	}
	m.mu.Lock()
	m.state.SecondFactorVerified = true
	m.mu.Unlock()
	m.auditEvent(ctx, u.ID, auditdomain.ActionSecondFactorVerified, auditdomain.ResourceSession, "")
	m.succeed(ctx, op, u.ID, MsgSecondFactorVerified)
	return nil
}

// AvatarURL returns the generated avatar for a display name. Spaces are escaped as %20.
func AvatarURL(name string) string {
	return avatarBase + "?name=" + strings.ReplaceAll(url.QueryEscape(name), "+", "%20") + "&background=random"
}

func (m *Manager) nextID(ctx context.Context, role userdomain.Role) (string, error) {
	n, err := m.users.Count(ctx)
	if err != nil {
		return "", err
	}
	for i := n + 1; ; i++ {
		id := role.Prefix() + strconv.Itoa(i)
		u, err := m.users.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		if u == nil {
			return id, nil
		}
	}
}

func (m *Manager) checkPassword(ctx context.Context, userID, password string) error {
	hash, err := m.creds.GetPasswordHash(ctx, userID)
	if err != nil {
		return err
	}
	if hash == "" || m.hasher.Compare(hash, password) != nil {
		return apperr.Authentication(MsgInvalidCredentials)
	}
	return nil
}

// discardChallenge removes a challenge that can no longer be answered.
func (m *Manager) discardChallenge(ctx context.Context, id string) {
	if err := m.challenge.Delete(ctx, id); err != nil {
		m.log.Warn("discard challenge", zap.String("challenge_id", id), zap.Error(err))
	}
	if m.devOTP != nil {
		m.devOTP.Delete(ctx, id)
	}
}

// storedUser is the raw stored user record as it was before a write.
type storedUser struct {
	raw     []byte
	present bool
}

func (m *Manager) snapshotUser(ctx context.Context) (storedUser, error) {
	raw, ok, err := m.store.Get(ctx, UserKey)
	if err != nil {
		return storedUser{}, err
	}
	return storedUser{raw: raw, present: ok}, nil
}

// restoreUser puts back a snapshot after a failed directory write. Failures are logged;
// the caller is already reporting an error.
func (m *Manager) restoreUser(ctx context.Context, prev storedUser) {
	var err error
	if prev.present {
		err = m.store.Set(ctx, UserKey, prev.raw)
	} else {
		err = m.store.Delete(ctx, UserKey)
	}
	if err != nil {
		m.log.Error("restore stored user", zap.String("client_id", m.clientID), zap.Error(err))
	}
}

func (m *Manager) persistUser(ctx context.Context, u *userdomain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, UserKey, raw)
}

func (m *Manager) signIn(u *userdomain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.User = u.Clone()
	m.state.SecondFactorVerified = false
}

func (m *Manager) currentUser() *userdomain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.User.Clone()
}

func (m *Manager) isCurrent(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.User != nil && m.state.User.ID == userID
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.state.Loading = v
	m.mu.Unlock()
}

// begin serializes the operation, marks the session loading and waits out the simulated latency.
func (m *Manager) begin() {
	m.opMu.Lock()
	m.setLoading(true)
	if m.latency > 0 {
		m.sleep(m.latency)
	}
}

func (m *Manager) end() {
	m.setLoading(false)
	m.opMu.Unlock()
}

func (m *Manager) succeed(ctx context.Context, op, userID, msg string) {
	m.notifier.Notify(ctx, notify.Notification{Level: notify.LevelSuccess, Message: msg, ClientID: m.clientID, UserID: userID})
	m.count(ctx, op, "success")
}

// fail notifies the user and returns err. Errors outside the domain taxonomy are logged
// and shown with a generic message.
func (m *Manager) fail(ctx context.Context, op string, err error) error {
	if apperr.KindOf(err) == nil {
		m.log.Error("session operation failed", zap.String("operation", op), zap.String("client_id", m.clientID), zap.Error(err))
	}
	m.notifier.Notify(ctx, notify.Notification{
		Level:    notify.LevelError,
		Message:  capitalize(apperr.Message(err, msgInternal)),
		ClientID: m.clientID,
	})
	m.count(ctx, op, "failure")
	return err
}

func (m *Manager) count(ctx context.Context, op, outcome string) {
	if m.ops == nil {
		return
	}
	m.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

func (m *Manager) auditEvent(ctx context.Context, userID, action, resource, meta string) {
	if m.audit != nil {
		m.audit.LogEvent(ctx, userID, action, resource, meta)
	}
}

func metadata(key, value string) string {
	b, _ := json.Marshal(map[string]string{key: value})
	return string(b)
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
