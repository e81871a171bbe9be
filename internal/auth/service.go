package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/shelfwise/shelfwise/internal/audit"
	"github.com/shelfwise/shelfwise/internal/shared"
	"github.com/shelfwise/shelfwise/internal/validate"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 10

// maxUsernameLength is the longest username Register accepts; longer login
// names cannot exist and skip the store lookup.
const maxUsernameLength = 20

// AuditRecorder appends login audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) (audit.Entry, error)
}

// LoginObserver is notified of every login outcome that reached the audit log.
type LoginObserver interface {
	ObserveLogin(success bool, reason string)
}

// Service wraps registration and authentication rules.
type Service struct {
	repo      Repository
	audit     AuditRecorder
	validator *validate.Validator
	observer  LoginObserver
	cost      int

	dummyOnce sync.Once
	dummyHash []byte
}

// Option customises a Service.
type Option func(*Service)

// WithObserver reports login outcomes to o.
func WithObserver(o LoginObserver) Option {
	return func(s *Service) { s.observer = o }
}

// WithCost overrides the bcrypt work factor.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// NewService constructs a new Service.
func NewService(repo Repository, recorder AuditRecorder, opts ...Option) *Service {
	s := &Service{repo: repo, audit: recorder, validator: validate.New(), cost: BcryptCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the submission, hashes the password and stores the user.
func (s *Service) Register(ctx context.Context, reg Registration) (User, error) {
	values, err := s.validator.Form(
		validate.F("username", reg.Username, validate.Required(), validate.Length(5, maxUsernameLength),
			validate.Message("Username must be between 5 and 20 characters.")),
		validate.F("first", reg.First, validate.Required(), validate.MaxLength(100), validate.Label("First name")),
		validate.F("last", reg.Last, validate.Required(), validate.MaxLength(100), validate.Label("Last name")),
		validate.F("email", reg.Email, validate.Required(), validate.Email(),
			validate.Message("Please enter a valid email address.")),
		validate.F("password", reg.Password, validate.Required(), validate.Raw(), validate.Length(8, 0),
			validate.Message("Password must be at least 8 characters long.")),
	)
	if err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(values["password"]), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return User{}, validate.Errors{{Field: "password", Reason: "Password must be at most 72 bytes long."}}
		}
		return User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	return s.repo.Create(ctx, User{
		Username:     values["username"],
		First:        values["first"],
		Last:         values["last"],
		Email:        values["email"],
		PasswordHash: string(hash),
	})
}

// Verify checks a username/password pair. An unknown username and a wrong
// password are distinguished only through Verification.Reason. The returned
// error is reserved for store failures.
func (s *Service) Verify(ctx context.Context, username, password string) (Verification, error) {
	if utf8.RuneCountInString(username) > maxUsernameLength {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return Verification{Reason: ReasonUnknownUser}, nil
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Unknown usernames cost one bcrypt comparison, like wrong passwords.
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return Verification{Reason: ReasonUnknownUser}, nil
		}
		return Verification{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Verification{User: user, Reason: ReasonBadPassword}, nil
	}
	return Verification{User: user, Reason: ReasonOK}, nil
}

// Login authenticates an attempt and records exactly one audit entry for it.
// A failed audit write is returned as an error and the attempt never counts
// as authenticated.
func (s *Service) Login(ctx context.Context, attempt Attempt) (Result, error) {
	username := validate.Normalize(attempt.Username)
	entry := audit.Entry{
		Username:  username,
		Outcome:   audit.OutcomeFailure,
		IPAddress: attempt.IPAddress,
		UserAgent: attempt.UserAgent,
	}.Bounded()
	result := Result{Message: msgLoginFailed}

	if username == "" || attempt.Password == "" {
		result.Reason = ReasonMissingFields
		result.Message = msgMissingFields
		entry.Message = "Login failed: missing username or password"
		return s.finish(ctx, result, entry)
	}

	verification, err := s.Verify(ctx, username, attempt.Password)
	if err != nil {
		entry.Message = "Login failed: user lookup error"
		if _, auditErr := s.audit.Record(ctx, entry); auditErr != nil {
			return Result{}, errors.Join(err, auditErr)
		}
		return Result{}, err
	}

	result.Reason = verification.Reason
	switch verification.Reason {
	case ReasonOK:
		result.Authenticated = true
		result.Principal = verification.User.Principal()
		result.Message = "Login successful. Welcome, " + verification.User.Username + "!"
		entry.Outcome = audit.OutcomeSuccess
		entry.Message = result.Message
	case ReasonUnknownUser:
		entry.Message = "Login failed: user not found"
	default:
		entry.Message = "Login failed: incorrect password"
	}
	return s.finish(ctx, result, entry)
}

func (s *Service) finish(ctx context.Context, result Result, entry audit.Entry) (Result, error) {
	recorded, err := s.audit.Record(ctx, entry)
	if err != nil {
		return Result{}, fmt.Errorf("auth: record login audit: %w", err)
	}
	result.Audit = recorded
	if s.observer != nil {
		s.observer.ObserveLogin(result.Authenticated, string(result.Reason))
	}
	return result, nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("shelfwise-dummy-password"), s.cost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
