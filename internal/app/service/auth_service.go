package service

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/shopmall-backend/config"
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"github.com/ikkim/shopmall-backend/pkg/redis"
	"github.com/ikkim/shopmall-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	Refresh(refreshToken string) (*util.TokenPair, error)
	Logout(accessToken, refreshToken string) error
	GetProfile(userID uint) (*model.User, error)
	UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   *config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg *config.JWTConfig) AuthService {
	return &authService{userRepo: userRepo, jwtCfg: jwtCfg}
}

func (s *authService) Register(input RegisterInput) (*model.User, *util.TokenPair, error) {
	logger.Info("Registering new user", map[string]interface{}{
		"email": input.Email,
	})

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		logger.Warn("Registration rejected, email already exists", map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, nil)
		return nil, nil, err
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("User login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed, unknown email", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed, wrong password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

func (s *authService) Refresh(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtCfg.Secret)
	if err != nil {
		logger.Warn("Refresh token rejected", map[string]interface{}{
			"reason": err.Error(),
		})
		return nil, err
	}

	if redis.GetClient() != nil {
		revoked, err := redis.IsTokenBlacklisted(context.Background(), refreshToken)
		if err == nil && revoked {
			logger.Warn("Refresh rejected, token was revoked", map[string]interface{}{
				"user_id": claims.UserID,
			})
			return nil, util.ErrInvalidToken
		}
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.issueTokens(user)
}

// Logout revokes the session's tokens by blacklisting them until their
// natural expiry. Without Redis logout is a client-side operation only.
func (s *authService) Logout(accessToken, refreshToken string) error {
	if redis.GetClient() == nil {
		logger.Debug("Redis unavailable, skipping token revocation", nil)
		return nil
	}

	ctx := context.Background()
	for _, token := range []string{accessToken, refreshToken} {
		if token == "" {
			continue
		}
		claims, err := util.ValidateToken(token, s.jwtCfg.Secret)
		if err != nil {
			// Expired or garbage tokens need no revocation
			continue
		}
		if claims.ExpiresAt == nil {
			continue
		}
		remaining := time.Until(claims.ExpiresAt.Time)
		if remaining <= 0 {
			continue
		}
		if err := redis.BlacklistToken(ctx, token, remaining); err != nil {
			return err
		}
		logger.Info("Token revoked", map[string]interface{}{
			"user_id": claims.UserID,
		})
	}
	return nil
}

func (s *authService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate token pair", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}
