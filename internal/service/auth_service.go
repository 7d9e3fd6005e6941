package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/portfolio-backend/internal/logger"
)

// AdminSubject — субъект единственной учётной записи CMS.
const AdminSubject = "admin"

// LoginInput содержит данные для входа в CMS.
type LoginInput struct {
	Login    string
	Password string
}

// AuthService проверяет учётные данные администратора и выпускает токены.
// Пользовательской базы нет: логин и bcrypt-хеш пароля берутся из окружения.
type AuthService struct {
	login        string
	passwordHash string
	tokenManager *TokenManager
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(login, passwordHash string, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		login:        login,
		passwordHash: passwordHash,
		tokenManager: tokenManager,
	}
}

// Login проверяет учётные данные и возвращает токен доступа.
// Текст ошибки одинаков для неверного логина и неверного пароля.
func (s *AuthService) Login(in LoginInput) (*AccessToken, error) {
	if in.Login != s.login {
		return nil, fmt.Errorf("auth service: неверный логин или пароль")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("auth service: неверный логин или пароль")
	}

	token, _, err := s.tokenManager.Generate(AdminSubject)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось выпустить токен: %w", err)
	}

	logger.Component("auth").Info("Администратор вошёл в CMS")
	return token, nil
}

// Verify проверяет токен и подтверждает, что он выписан администратору.
func (s *AuthService) Verify(token string) error {
	subject, err := s.tokenManager.Parse(token)
	if err != nil {
		return fmt.Errorf("auth service: токен невалиден: %w", err)
	}
	if subject != AdminSubject {
		return fmt.Errorf("auth service: неизвестный субъект токена")
	}
	return nil
}
