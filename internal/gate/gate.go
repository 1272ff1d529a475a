package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/snapgrid/snapgrid-be/internal/apperrors"
	"github.com/snapgrid/snapgrid-be/internal/auth"
	"github.com/snapgrid/snapgrid-be/internal/models"
	"github.com/snapgrid/snapgrid-be/internal/monitoring"
	"github.com/snapgrid/snapgrid-be/internal/services"
	"github.com/snapgrid/snapgrid-be/internal/session"
)

// Gate owns the session slot and the sign-in and account-creation flows
// against the user-record store. It is the only writer of the slot; every
// consumer asks the gate instead of reading storage directly.
//
// Per session key the state machine is Anonymous -> Authenticating ->
// Authenticated. Authenticating never survives a request: any failure falls
// back to Anonymous with no attempt counting or lockout, and concurrent
// attempts race last-write-wins on the slot.
type Gate struct {
	users    services.UserServiceProvider
	sessions session.Store
	events   services.EventServiceProvider
}

// New creates a session gate over the given user store and session slot.
func New(users services.UserServiceProvider, sessions session.Store, events services.EventServiceProvider) *Gate {
	return &Gate{users: users, sessions: sessions, events: events}
}

// IsAuthenticated reports whether the slot for sessionKey holds a user id.
// It is a pure read of the slot; a slot read failure counts as anonymous.
func (g *Gate) IsAuthenticated(ctx context.Context, sessionKey string) bool {
	if sessionKey == "" {
		return false
	}
	userID, err := g.sessions.Get(ctx, sessionKey)
	if err != nil {
		log.Warn().Err(err).Msg("Session slot read failed")
		return false
	}
	return userID != ""
}

// UserID returns the user id in the slot for sessionKey, or "".
func (g *Gate) UserID(ctx context.Context, sessionKey string) string {
	if sessionKey == "" {
		return ""
	}
	userID, err := g.sessions.Get(ctx, sessionKey)
	if err != nil {
		return ""
	}
	return userID
}

// Login authenticates email/password against the user-record store and, on
// success, persists the matched record's id into the session slot. Failures
// leave the slot untouched.
func (g *Gate) Login(ctx context.Context, sessionKey, email, password string) (models.User, error) {
	if password == "" {
		g.record("auth.login.rejected", "warn", "please enter password", nil)
		monitoring.AuthAttempts.WithLabelValues("login", "validation").Inc()
		return models.User{}, apperrors.ErrValidation
	}

	user, err := g.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			g.record("auth.login.failed", "error", "user not recognized", nil)
			monitoring.AuthAttempts.WithLabelValues("login", "not_found").Inc()
			return models.User{}, apperrors.ErrNotFound
		}
		log.Error().Err(err).Str("email", email).Msg("User lookup failed")
		g.record("auth.login.failed", "error", "error logging in", nil)
		monitoring.AuthAttempts.WithLabelValues("login", "transport").Inc()
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		g.record("auth.login.failed", "error", "incorrect password, please try again", nil)
		monitoring.AuthAttempts.WithLabelValues("login", "bad_password").Inc()
		return models.User{}, apperrors.ErrAuth
	}

	if err := g.sessions.Set(ctx, sessionKey, user.ID); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to persist session")
		monitoring.AuthAttempts.WithLabelValues("login", "transport").Inc()
		return models.User{}, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}

	user.PasswordHash = ""
	monitoring.AuthAttempts.WithLabelValues("login", "ok").Inc()
	log.Info().Str("user_id", user.ID).Msg("User logged in")
	return user, nil
}

// CreateAccount registers a new user and signs them in. The duplicate
// pre-check gives the friendly error; the store's uniqueness constraint
// closes the race two concurrent registrations would otherwise win together.
func (g *Gate) CreateAccount(ctx context.Context, sessionKey, email, password string) (models.User, error) {
	_, err := g.users.GetUserByEmail(ctx, email)
	if err == nil {
		g.record("auth.register.rejected", "info", "user with this mail already exist", nil)
		monitoring.AuthAttempts.WithLabelValues("register", "duplicate").Inc()
		return models.User{}, apperrors.ErrDuplicate
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		log.Error().Err(err).Str("email", email).Msg("Duplicate pre-check failed")
		monitoring.AuthAttempts.WithLabelValues("register", "transport").Inc()
		return models.User{}, err
	}

	if password == "" {
		g.record("auth.register.rejected", "warn", "password field can't be empty", nil)
		monitoring.AuthAttempts.WithLabelValues("register", "validation").Inc()
		return models.User{}, apperrors.ErrValidation
	}

	if err := auth.ValidatePassword(password); err != nil {
		g.record("auth.register.rejected", "warn", err.Error(), nil)
		monitoring.AuthAttempts.WithLabelValues("register", "policy").Inc()
		return models.User{}, err
	}

	user, err := g.users.CreateUser(ctx, email, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			monitoring.AuthAttempts.WithLabelValues("register", "duplicate").Inc()
			return models.User{}, err
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to create account")
		g.record("auth.register.failed", "error", "error creating your account", nil)
		monitoring.AuthAttempts.WithLabelValues("register", "transport").Inc()
		return models.User{}, err
	}

	if err := g.sessions.Set(ctx, sessionKey, user.ID); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to persist session")
		monitoring.AuthAttempts.WithLabelValues("register", "transport").Inc()
		return models.User{}, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}

	g.record("auth.register.ok", "info", "account created successfully", &user.ID)
	monitoring.AuthAttempts.WithLabelValues("register", "ok").Inc()
	log.Info().Str("user_id", user.ID).Msg("Account created")
	return user, nil
}

// CurrentUser resolves the slot's user id back to its record. Anonymous
// callers get ErrAuth; a stored id whose record has vanished surfaces the
// store's NotFound.
func (g *Gate) CurrentUser(ctx context.Context, sessionKey string) (models.User, error) {
	userID := g.UserID(ctx, sessionKey)
	if userID == "" {
		return models.User{}, apperrors.ErrAuth
	}
	return g.users.GetUserByID(ctx, userID)
}

// Logout clears the session slot. Clearing an already-anonymous session is
// not an error.
func (g *Gate) Logout(ctx context.Context, sessionKey string) error {
	if sessionKey == "" {
		return nil
	}
	if err := g.sessions.Clear(ctx, sessionKey); err != nil {
		log.Error().Err(err).Msg("Failed to clear session")
		return fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	monitoring.AuthAttempts.WithLabelValues("logout", "ok").Inc()
	return nil
}

// record writes a notification event, ignoring feed failures: the outcome of
// the operation that produced the event is already decided.
func (g *Gate) record(eventType, level, message string, userID *string) {
	if g.events == nil {
		return
	}
	if err := g.events.CreateEvent(eventType, level, message, userID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}
