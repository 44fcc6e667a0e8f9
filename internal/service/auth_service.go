package service

import (
	"fmt"
	"time"

	"draw-size-go/internal/model"
	"draw-size-go/internal/repository"
	"draw-size-go/pkg/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService сервис регистрации и проверки пользователей
type AuthService struct {
	userRepo   repository.UserRepository
	audit      *AuditService
	logger     *logrus.Logger
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, audit *AuditService, logger *logrus.Logger, jwtSecret string, tokenTTLMinutes, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		audit:      audit,
		logger:     logger,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   time.Duration(tokenTTLMinutes) * time.Minute,
		bcryptCost: bcryptCost,
	}
}

// Signup регистрирует нового пользователя
func (s *AuthService) Signup(email, password, fullName string) (*models.UserInfo, error) {
	s.logger.Infof("Регистрируем пользователя %s", email)

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		s.logger.Errorf("Ошибка проверки почты: %v", err)
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		s.logger.Errorf("Ошибка хеширования пароля: %v", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.New().String(),
		Email:          email,
		HashedPassword: string(hash),
		FullName:       fullName,
		IsActive:       true,
	}
	if err := s.userRepo.Create(user); err != nil {
		s.logger.Errorf("Ошибка создания пользователя: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.Record(user.ID, EventSignup, "user", user.ID, user.Email)
	s.logger.Infof("Пользователь %s зарегистрирован", user.ID)
	return s.UserInfo(user), nil
}

// Login проверяет учетные данные и выдает токен доступа
func (s *AuthService) Login(email, password string) (*models.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		s.logger.Errorf("Ошибка получения пользователя: %v", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		s.logger.Errorf("Ошибка подписи токена: %v", err)
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		s.logger.Warnf("Не удалось сохранить время входа пользователя %s: %v", user.ID, err)
	}

	s.audit.Record(user.ID, EventLogin, "user", user.ID, user.Email)
	s.logger.Infof("Пользователь %s вошел в систему", user.ID)
	return &models.TokenResponse{AccessToken: signed, TokenType: "bearer"}, nil
}

// CurrentUser возвращает активного пользователя по токену доступа
func (s *AuthService) CurrentUser(tokenString string) (*model.User, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// UserInfo преобразует модель пользователя в ответ API
func (s *AuthService) UserInfo(user *model.User) *models.UserInfo {
	return &models.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
