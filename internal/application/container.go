package application

import (
	"github.com/a1-en/E-Shoe-Store/config"
	"github.com/a1-en/E-Shoe-Store/internal/application/services"
	"github.com/a1-en/E-Shoe-Store/internal/infrastructure/crypto"
	"github.com/a1-en/E-Shoe-Store/internal/infrastructure/persistence"
	"github.com/a1-en/E-Shoe-Store/pkg/jwt"
)

// Dependencies holds shared infrastructure dependencies.
type Dependencies struct {
	JWTManager *jwt.Manager
	Hasher     *crypto.PasswordHasher
}

// NewDependencies creates shared dependencies from config.
func NewDependencies(cfg *config.Config) *Dependencies {
	return &Dependencies{
		JWTManager: jwt.NewManager(cfg.JWT.Issuer, cfg.JWT.Secret),
		Hasher: crypto.NewPasswordHasher(
			cfg.Auth.Argon2Memory,
			cfg.Auth.Argon2Iterations,
			cfg.Auth.Argon2Parallelism,
			cfg.Auth.Argon2SaltLength,
			cfg.Auth.Argon2KeyLength,
		),
	}
}

// Services holds all application services.
type Services struct {
	Auth *services.AuthService
}

// NewServices creates all application services.
func NewServices(repos *persistence.Repositories, deps *Dependencies, cfg *config.Config) *Services {
	return &Services{
		Auth: services.NewAuthService(repos.User, deps.Hasher, deps.JWTManager, cfg),
	}
}
