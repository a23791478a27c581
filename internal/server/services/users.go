package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gestion-contratistas/portal/internal/common"
	"github.com/gestion-contratistas/portal/internal/server/auth"
	sc "github.com/gestion-contratistas/portal/internal/server/config"
	"github.com/gestion-contratistas/portal/internal/server/models"
	"github.com/gestion-contratistas/portal/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService authenticates portal accounts and issues session tokens.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewUserService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// Login checks the credentials against the users table. Unknown username and
// wrong password both return common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {

	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// IssueToken signs a session token for the user with the configured
// validity. The token carries the user's role for the whole of its lifetime.
func (s *UserService) IssueToken(user *models.User) (string, error) {
	return auth.GenerateToken(user.ID, user.Username, user.Role,
		[]byte(s.config.SecretKey), s.config.TokenValidityDuration)
}
