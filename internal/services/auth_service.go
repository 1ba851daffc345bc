package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/skytrip/flight-booking-backend/internal/database"
	"github.com/skytrip/flight-booking-backend/internal/models"
	"github.com/skytrip/flight-booking-backend/internal/utils"
	"github.com/skytrip/flight-booking-backend/pkg/jwt"
)

// AuthService handles registration, login and session recording
type AuthService struct {
	userRepo   *database.UserRepository
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *database.UserRepository, jwtService *jwt.Service, bcryptCost int, logger *logrus.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new account and signs it in
func (s *AuthService) Register(req *models.RegisterRequest, userAgent, ipAddress string) (*models.AuthResponse, error) {
	existing, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewFieldValidationError("email", "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(req.Email, string(hash), req.FullName)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	return s.issueSession(user, userAgent, ipAddress)
}

// Login verifies credentials and signs the user in. Unknown email and
// wrong password read identically to the caller.
func (s *AuthService) Login(req *models.LoginRequest, userAgent, ipAddress string) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewValidationError("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.NewValidationError("invalid email or password")
	}

	return s.issueSession(user, userAgent, ipAddress)
}

// GetProfile returns the account for an authenticated user id
func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("user")
	}
	return user, nil
}

func (s *AuthService) issueSession(user *models.User, userAgent, ipAddress string) (*models.AuthResponse, error) {
	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	expiresAt, err := s.jwtService.GetTokenExpiry(token)
	if err != nil {
		return nil, err
	}

	device := utils.ParseUserAgent(userAgent)
	session := &models.UserSession{
		UserID:     user.ID,
		DeviceName: device.Name(),
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
	}
	if err := s.userRepo.CreateSession(session); err != nil {
		// login still succeeds without the session row
		s.logger.WithFields(logrus.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Error("Failed to record login session")
	}

	return &models.AuthResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Truncate(time.Second),
		User:        user,
	}, nil
}
