package services

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/thereayou/relyexchange/internal/models"
)

// ErrDuplicate is wrapped by stores when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate record")

var errInvalidCredentials = &NotFoundOrUnauthorizedError{Resource: "user", Message: "invalid credentials"}

// TokenIssuer signs access tokens for a user id.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	LoginBy  string
}

type UserService struct {
	store  UserStore
	tokens TokenIssuer
	logger *slog.Logger
}

func NewUserService(store UserStore, tokens TokenIssuer, logger *slog.Logger) *UserService {
	return &UserService{store: store, tokens: tokens, logger: logger.With("component", "services.UserService")}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, NewValidationError("email", "email is invalid")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, NewValidationError("name", "name is required")
	}

	loginBy := in.LoginBy
	if loginBy == "" {
		loginBy = models.LoginByPassword
	}

	user := &models.User{Email: email, Name: in.Name, LoginBy: loginBy}

	switch loginBy {
	case models.LoginByPassword:
		if len(in.Password) < 8 {
			return nil, NewValidationError("password", "password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		h := string(hash)
		user.PasswordHash = &h
	case models.LoginByGoogle, models.LoginByApple:
	default:
		return nil, NewValidationError("login_by", "login_by must be one of: password, google, apple")
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, NewValidationError("email", "email already registered")
		}
		return nil, NewStorageError("save user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "login_by", loginBy)
	return user, nil
}

// Login checks a password account and issues a token. Unknown emails, wrong
// passwords and non-password accounts all fail the same way.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errInvalidCredentials
		}
		return "", nil, NewStorageError("find user", err)
	}

	if user.LoginBy != models.LoginByPassword || user.PasswordHash == nil {
		return "", nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID.String())
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *UserService) Get(ctx context.Context, rawID string) (*models.User, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, NewNotFoundError("user", "user not found")
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user", "user not found")
		}
		return nil, NewStorageError("get user", err)
	}
	return user, nil
}

func (s *UserService) Search(ctx context.Context, q ListQuery) ([]models.User, Pagination, error) {
	users, total, err := s.store.SearchUsers(ctx, q)
	if err != nil {
		return nil, Pagination{}, NewStorageError("search users", err)
	}
	return users, NewPagination(q.PageRequest, total), nil
}
