package user

import (
	"fmt"
	"log"

	"github.com/kinyy999/sample-share-backend/internal/apperr"
	"github.com/kinyy999/sample-share-backend/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

type Store interface {
	Create(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(userID int) (*User, error)
	List() ([]User, error)
	Delete(userID int) error
	UpdateRole(userID int, role string) error
	UpdateActive(userID int, isActive bool) error
	UpdatePassword(userID int, hash string) error
}

type Mailer interface {
	SendResetEmail(to string, resetLink string) error
}

type Service struct {
	repo        Store
	mailer      Mailer
	frontendURL string
}

func NewService(repo Store, mailer Mailer, frontendURL string) *Service {
	return &Service{repo: repo, mailer: mailer, frontendURL: frontendURL}
}

// RegisterUser создает пользователя; ответ содержит сохраненную запись как есть,
// включая bcrypt-хеш (поведение исходного бэкенда)
func (s *Service) RegisterUser(req *RegisterRequest) (*User, error) {
	checkuser, err := s.repo.GetByEmail(req.Email)
	if err != nil && err != apperr.ErrUserNotFound {
		return nil, err
	}
	if checkuser != nil {
		return nil, apperr.ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     "user",
		IsActive: true,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Authenticate(email, password string) (string, string, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", "", apperr.ErrInvalidCredentials
	}

	// Деактивированный аккаунт отклоняется до сравнения пароля
	if !user.IsActive {
		return "", "", apperr.ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", apperr.ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return "", "", err
	}

	return token, user.Role, nil
}

func (s *Service) ListUsers() ([]User, error) {
	return s.repo.List()
}

func (s *Service) DeleteUser(userID, requesterID int) error {
	if userID == requesterID {
		return apperr.ErrSelfDelete
	}
	return s.repo.Delete(userID)
}

func (s *Service) ChangeRole(userID int, role string) error {
	if role != "user" && role != "admin" {
		return apperr.ErrInvalidRole
	}
	return s.repo.UpdateRole(userID, role)
}

func (s *Service) SetActive(userID int, isActive bool) error {
	return s.repo.UpdateActive(userID, isActive)
}

// RecoverPassword отправляет письмо со ссылкой сброса; для неизвестного email
// ответ тот же, чтобы не раскрывать существование аккаунта
func (s *Service) RecoverPassword(email string) error {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil
	}

	token, err := auth.GenerateResetToken(user.Email)
	if err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	if err := s.mailer.SendResetEmail(user.Email, resetLink); err != nil {
		log.Printf("Ошибка отправки письма для %s: %v", user.Email, err)
		return err
	}
	return nil
}

func (s *Service) ResetPassword(token, password string) error {
	claims, err := auth.ParseResetToken(token)
	if err != nil {
		return apperr.ErrInvalidToken
	}

	user, err := s.repo.GetByEmail(claims.Email)
	if err != nil {
		return apperr.ErrUserNotFound
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(user.ID, string(hashedPassword))
}
