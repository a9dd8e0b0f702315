package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"inkwell/app/models"
	"inkwell/app/repositories"
)

// AuthService registers and authenticates users, and issues and
// verifies the bearer tokens that carry the principal identity.
type AuthService struct {
	userRepo repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Register creates a new account and returns it with a signed token
func (s *AuthService) Register(username, email, password string) (*models.User, string, error) {
	if err := validatePassword(password); err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
	}
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %v", err)
	}
	user.PasswordHash = string(hash)

	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates an email/password pair and returns the user with
// a signed token. Wrong email and wrong password are indistinguishable
// to the caller.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err == repositories.ErrNotFound {
		return nil, "", ErrUnauthorized
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrUnauthorized
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetProfile retrieves the account behind a principal ID
func (s *AuthService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile changes the username and/or email of an account. Empty
// arguments keep the stored value.
func (s *AuthService) UpdateProfile(userID, username, email string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the credential secret after verifying the
// current one
func (s *AuthService) ChangePassword(userID, current, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrUnauthorized
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}
	user.PasswordHash = string(hash)
	return s.userRepo.Update(user)
}

// VerifyToken checks a bearer token and returns the principal it
// carries
func (s *AuthService) VerifyToken(tokenString string) (userID, username string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrUnauthorized
	}
	userID, ok1 := claims["userId"].(string)
	username, ok2 := claims["username"].(string)
	if !ok1 || !ok2 || userID == "" {
		return "", "", ErrUnauthorized
	}
	return userID, username, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":   user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return signed, nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return &models.ValidationError{Messages: []string{"password must be at least 6 characters"}}
	}
	return nil
}
