package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/a1-en/E-Shoe-Store/config"
	"github.com/a1-en/E-Shoe-Store/internal/application/dto"
	"github.com/a1-en/E-Shoe-Store/internal/domain/user"
	"github.com/a1-en/E-Shoe-Store/internal/infrastructure/crypto"
	"github.com/a1-en/E-Shoe-Store/pkg/errors"
	"github.com/a1-en/E-Shoe-Store/pkg/jwt"
)

// emailPattern matches the storefront's signup contract: one non-space,
// non-@ run, an @, another run, a dot, and a final run.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService handles account creation, login, and token issuance.
type AuthService struct {
	userRepo   user.Repository
	hasher     *crypto.PasswordHasher
	jwtManager *jwt.Manager
	cfg        *config.Config
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo user.Repository,
	hasher *crypto.PasswordHasher,
	jwtManager *jwt.Manager,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtManager: jwtManager,
		cfg:        cfg,
	}
}

// Signup creates a new user account and returns a bearer token, so a
// fresh signup is immediately authenticated.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.validateSignup(username, email, req.Password); err != nil {
		return nil, err
	}

	// Check email uniqueness
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check email existence")
	}
	if exists {
		return nil, errors.ErrEmailAlreadyExists
	}

	// Check username uniqueness
	exists, err = s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check username existence")
	}
	if exists {
		return nil, errors.ErrUsernameTaken
	}

	// Hash password with Argon2id
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	u := user.NewUser(username, email, passwordHash)
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	return s.issueToken(u)
}

// Login authenticates a user by email and password and returns a bearer token.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if email == "" || req.Password == "" {
		verrs := &errors.ValidationErrors{}
		if email == "" {
			verrs.Add("email", "email is required")
		}
		if req.Password == "" {
			verrs.Add("password", "password is required")
		}
		return nil, verrs
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "failed to get user")
	}

	// Verify password
	valid, err := s.hasher.Verify(req.Password, u.PasswordHash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify password")
	}
	if !valid {
		return nil, errors.ErrInvalidCredentials
	}

	// Check if password needs rehash (parameters changed)
	needsRehash, _ := s.hasher.NeedsRehash(u.PasswordHash)
	if needsRehash {
		if newHash, err := s.hasher.Hash(req.Password); err == nil {
			u.UpdatePassword(newHash)
			_ = s.userRepo.Update(ctx, u)
		}
	}

	u.RecordLogin()
	_ = s.userRepo.UpdateLastLogin(ctx, u.ID)

	return s.issueToken(u)
}

// GetUser returns the public view of an account. Used by the protected probe.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.UserResponse{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}, nil
}

func (s *AuthService) issueToken(u *user.User) (*dto.TokenResponse, error) {
	token, err := s.jwtManager.CreateToken(u.ID.String(), s.cfg.JWT.TokenTTL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create token")
	}
	return &dto.TokenResponse{Token: token}, nil
}

func (s *AuthService) validateSignup(username, email, password string) error {
	verrs := &errors.ValidationErrors{}

	if username == "" {
		verrs.Add("username", "username is required")
	}
	if email == "" {
		verrs.Add("email", "email is required")
	} else if !emailPattern.MatchString(email) {
		verrs.Add("email", "invalid email format")
	}
	if password == "" {
		verrs.Add("password", "password is required")
	} else if len(password) < s.cfg.Auth.MinPasswordLength {
		verrs.Add("password", "password is too short")
	}

	if verrs.HasErrors() {
		return verrs
	}
	return nil
}
