package user

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dotEthan/Recipeasy-backend-sub000/domain"
	"github.com/dotEthan/Recipeasy-backend-sub000/entities"
	"github.com/dotEthan/Recipeasy-backend-sub000/pkg/jwt"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.UserRegisterRequest) (domain.UserRegisterResponse, error)
		Login(ctx context.Context, req domain.UserLoginRequest) (domain.UserLoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserMeResponse, error)
		UpdateUser(ctx context.Context, userID string, req domain.UserUpdateRequest) error
		SendVerification(ctx context.Context, email string) error
		VerifyEmail(ctx context.Context, userID string, code string) error
	}

	userService struct {
		userRepository      UserRepository
		jwtService          jwt.JWTService
		verificationService EmailVerificationService
		passwordService     PasswordService
	}
)

func NewUserService(
	userRepository UserRepository,
	jwtService jwt.JWTService,
	verificationService EmailVerificationService,
	passwordService PasswordService,
) UserService {
	return &userService{
		userRepository:      userRepository,
		jwtService:          jwtService,
		verificationService: verificationService,
		passwordService:     passwordService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.UserRegisterRequest) (domain.UserRegisterResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.UserRegisterResponse{}, domain.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserRegisterResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserRegisterResponse{}, err
	}

	user := &entities.User{
		ID:              uuid.New(),
		Email:           req.Email,
		DisplayName:     req.DisplayName,
		Password:        string(hash),
		PasswordHistory: "[]",
		Role:            domain.RoleUser,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.UserRegisterResponse{}, err
	}

	if err := s.verificationService.IssueCode(ctx, user.Email, user.DisplayName, user.ID); err != nil {
		return domain.UserRegisterResponse{}, err
	}

	return domain.UserRegisterResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Verified:    user.Verified,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.UserLoginRequest) (domain.UserLoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserLoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.UserLoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return domain.UserLoginResponse{}, domain.ErrInvalidCredentials
	}

	if err := s.passwordService.CheckResetInProgress(ctx, req.Email); err != nil {
		return domain.UserLoginResponse{}, err
	}

	if !user.Verified {
		if err := s.verificationService.EnsureCode(ctx, user.Email, user.DisplayName, user.ID); err != nil {
			log.Printf("failed to issue verification code for user %s: %v", user.ID, err)
		}
		return domain.UserLoginResponse{}, domain.ErrUserNotVerified
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.UserLoginResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserMeResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserMeResponse{}, domain.ErrUserNotFound
		}
		return domain.UserMeResponse{}, err
	}

	return domain.UserMeResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Verified:    user.Verified,
		Role:        user.Role,
		Preferences: user.Preferences,
	}, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req domain.UserUpdateRequest) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	return s.userRepository.UpdateProfile(ctx, userUUID, req.DisplayName, req.Preferences)
}

func (s *userService) SendVerification(ctx context.Context, email string) error {
	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	if user.Verified {
		return nil
	}
	return s.verificationService.IssueCode(ctx, user.Email, user.DisplayName, user.ID)
}

// VerifyEmail checks the submitted code, marks the user verified, then
// consumes the code so it cannot be replayed.
func (s *userService) VerifyEmail(ctx context.Context, userID string, code string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	if err := s.verificationService.CheckCode(ctx, userUUID, code); err != nil {
		return err
	}

	rows, err := s.userRepository.SetVerified(ctx, userUUID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}

	if err := s.verificationService.ConsumeCode(ctx, userUUID); err != nil {
		log.Printf("failed to consume verification code for user %s: %v", userID, err)
	}
	return nil
}
