package services

import (
	"errors"
	"strings"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/repository"
	"github.com/jchou1989/XuanteaPOS-sub001/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNameTaken          = errors.New("name already registered")
)

// AuthService handles staff login.
type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(repo *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  repo,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

// Register creates a staff account. role defaults to staff.
func (s *AuthService) Register(name, password, role string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, errors.New("name and password are required")
	}
	count, err := s.userRepo.CountByName(name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("hash password failed")
	}
	if role == "" {
		role = "staff"
	}
	user := &entity.User{Name: name, Password: string(hashed), Role: role}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the password and issues a JWT.
func (s *AuthService) Login(name, password string) (string, *entity.User, error) {
	user, err := s.userRepo.FindByName(strings.TrimSpace(name))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Name, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, errors.New("cannot generate token")
	}
	return token, user, nil
}

func (s *AuthService) GetProfile(userID uint) (*entity.User, error) {
	return s.userRepo.FindByID(userID)
}
