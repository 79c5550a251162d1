package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"joybox/internal/models"
	"joybox/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration and login. Email is the login identity.
// Registration is a tracked CREATE mutation on the user entity.
type AuthService struct {
	userRepo   repositories.UserRepository
	audit      *AuditService
	validate   *validator.Validate
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, audit *AuditService, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		audit:      audit,
		validate:   validator.New(),
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterUser registers a new buyer account, hashing the password and
// validating phone (11 digits) and email at the storage boundary.
func (s *AuthService) RegisterUser(user *models.User) error {
	if user.RoleID == 0 {
		roleID, err := s.userRepo.RoleID(models.RoleBuyer)
		if err != nil {
			return err
		}
		user.RoleID = roleID
	}
	if err := s.validate.Struct(user); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("email %q already registered", user.Email)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.CreatedAt = time.Now()

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	// Self-registration: the new account is its own actor.
	s.audit.Record(user.ID, models.AuditCreate, "user", user.ID, nil, Snapshot(user))
	return nil
}

// CreateAddress stores a delivery address for the user. The postal index is
// validated as exactly 6 digits at the storage boundary.
func (s *AuthService) CreateAddress(userID int64, address *models.Address) error {
	address.UserID = userID
	if err := s.validate.Struct(address); err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	return s.userRepo.CreateAddress(address)
}

// LoginUser authenticates by email and returns a signed JWT.
func (s *AuthService) LoginUser(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	}
	if user.Role != nil {
		claims["role"] = user.Role.Name
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
