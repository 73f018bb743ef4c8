package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/krsnavtr-code/Pass-Manager/internal/common"
	"github.com/krsnavtr-code/Pass-Manager/internal/cryptox"
	"github.com/krsnavtr-code/Pass-Manager/internal/dbx"
	"github.com/krsnavtr-code/Pass-Manager/internal/logging"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/auth"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/config"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/repomanager"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// RegisterInput is the registration form.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	MasterPassword  string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token   string
	Session *models.Session
	User    *models.User
}

// UserService handles accounts and bearer tokens:
// - Register: create the user and the first session, mint a token
// - Login: check credentials, refresh or start a session, mint a token
// - Authenticate: turn a bearer token into a user id
type UserService struct {
	repomanager repomanager.RepositoryManager
	sessions    *SessionService
	jwtSecret   []byte
	tokenTTL    time.Duration
	bcryptCost  int
	log         logging.Logger

	// dummyHash is compared against when the email is unknown so that both
	// login failures cost one bcrypt comparison.
	dummyHash string
}

func NewUserService(m repomanager.RepositoryManager, sessions *SessionService, cfg *config.Config, log logging.Logger) *UserService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = cryptox.DefaultCost
	}
	dummy, err := cryptox.HashSecret("not-a-real-password", cost)
	if err != nil {
		panic(err)
	}
	return &UserService{
		repomanager: m,
		sessions:    sessions,
		jwtSecret:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.AccessTokenValidityDuration,
		bcryptCost:  cost,
		log:         logging.ForModule(log, "users"),
		dummyHash:   dummy,
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.Email == "" || in.Password == "" || in.MasterPassword == "" {
		return nil, common.NewValidationError("Please provide all required fields")
	}
	if in.Password != in.ConfirmPassword {
		return nil, common.NewValidationError("Passwords do not match")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, common.NewValidationError("Please add a valid email")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return nil, common.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	passwordHash, err := cryptox.HashSecret(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	masterHash, err := cryptox.HashSecret(in.MasterPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	result := &AuthResult{}
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Name:               in.Name,
			Email:              in.Email,
			PasswordHash:       passwordHash,
			MasterPasswordHash: masterHash,
		})
		if err != nil {
			return err
		}
		session, err := s.sessions.loginWith(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		result.User, result.Session = user, session
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.NewError(common.ErrConflict, "User already exists")
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	if result.Token, err = s.generateAccessToken(result.User.ID); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", result.User.ID)
	return result, nil
}

// Login returns the same error for an unknown email and a wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, common.NewValidationError("Please provide email and password")
	}

	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.CompareSecret(s.dummyHash, password)
			return nil, errInvalidCredentials()
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !cryptox.CompareSecret(user.PasswordHash, password) {
		return nil, errInvalidCredentials()
	}

	session, err := s.sessions.Login(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.generateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID, "session_id", session.ID)
	return &AuthResult{Token: token, Session: session, User: user}, nil
}

// Authenticate resolves a bearer token to the id of an existing user.
func (s *UserService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.NewError(common.ErrorUnauthorized, "Not authorized, no token")
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return "", common.NewError(common.ErrorUnauthorized, "Not authorized, token failed")
	}

	if _, err := s.repomanager.Users(s.repomanager.Conn()).GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.NewError(common.ErrorUnauthorized, "Not authorized, user not found")
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	return userID, nil
}

// VerifyMasterPassword checks candidate against the stored one-way hash.
// It says nothing about whether the candidate decrypts any entry.
func (s *UserService) VerifyMasterPassword(ctx context.Context, userID, candidate string) (bool, error) {
	if candidate == "" {
		return false, common.NewValidationError("Master password is required")
	}
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return false, err
	}
	return cryptox.CompareSecret(user.MasterPasswordHash, candidate), nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, "User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func errInvalidCredentials() error {
	return common.NewError(common.ErrorUnauthorized, "Invalid credentials")
}
