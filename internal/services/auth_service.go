package services

import (
	"context"
	"errors"
	"time"

	"pizza_store/internal/models"
	"pizza_store/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload: the user id plus the admin flag that
// gates order reads and updates.
type Claims struct {
	UserID  uuid.UUID `json:"user_id"`
	IsAdmin bool      `json:"is_admin"`
	jwt.RegisteredClaims
}

// Token is the auth response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*Token, error)
	Login(ctx context.Context, username, password string) (*Token, error)
	ParseToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	expiresIn time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, expiresIn time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		expiresIn: expiresIn,
	}
}

func (s *authService) Register(ctx context.Context, username, password string) (*Token, error) {
	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		IsAdmin:      false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.createToken(user)
}

func (s *authService) Login(ctx context.Context, username, password string) (*Token, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// An unknown username reads the same as a wrong password.
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.createToken(user)
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, models.ErrInvalidAccessToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, models.ErrInvalidAccessToken
}

func (s *authService) createToken(user *models.User) (*Token, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
			Issuer:    "pizza_store",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.expiresIn.Seconds()),
	}, nil
}
