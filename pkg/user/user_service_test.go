package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dotEthan/Recipeasy-backend-sub000/domain"
	"github.com/dotEthan/Recipeasy-backend-sub000/entities"
)

// MockEmailVerificationService is a mock implementation of the
// EmailVerificationService interface
type MockEmailVerificationService struct {
	mock.Mock
}

func (m *MockEmailVerificationService) IssueCode(ctx context.Context, email, displayName string, userID uuid.UUID) error {
	args := m.Called(ctx, email, displayName, userID)
	return args.Error(0)
}

func (m *MockEmailVerificationService) EnsureCode(ctx context.Context, email, displayName string, userID uuid.UUID) error {
	args := m.Called(ctx, email, displayName, userID)
	return args.Error(0)
}

func (m *MockEmailVerificationService) CheckCode(ctx context.Context, userID uuid.UUID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

func (m *MockEmailVerificationService) ConsumeCode(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockPasswordService is a mock implementation of the PasswordService interface
type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) StartReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockPasswordService) ValidateResetToken(token string, expectedType string) (string, error) {
	args := m.Called(token, expectedType)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) FinishReset(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

func (m *MockPasswordService) CheckResetInProgress(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func newUserService() (UserService, *MockUserRepository, *MockJWTService, *MockEmailVerificationService, *MockPasswordService) {
	userRepo := new(MockUserRepository)
	jwtService := new(MockJWTService)
	verification := new(MockEmailVerificationService)
	password := new(MockPasswordService)
	return NewUserService(userRepo, jwtService, verification, password), userRepo, jwtService, verification, password
}

func TestRegisterIssuesVerificationCode(t *testing.T) {
	service, userRepo, _, verification, _ := newUserService()

	userRepo.On("GetUserByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email == "new@example.com" &&
			u.Role == domain.RoleUser &&
			u.PasswordHistory == "[]" &&
			u.Password != "hunter2" // never stored in the clear
	})).Return(nil)
	verification.On("IssueCode", mock.Anything, "new@example.com", "Cook", mock.AnythingOfType("uuid.UUID")).Return(nil)

	res, err := service.Register(context.Background(), domain.UserRegisterRequest{
		Email:       "new@example.com",
		DisplayName: "Cook",
		Password:    "hunter2",
	})

	require.NoError(t, err)
	assert.False(t, res.Verified)
	userRepo.AssertExpectations(t)
	verification.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, userRepo, _, _, _ := newUserService()

	userRepo.On("GetUserByEmail", mock.Anything, "taken@example.com").Return(&entities.User{ID: uuid.New()}, nil)

	_, err := service.Register(context.Background(), domain.UserRegisterRequest{
		Email:    "taken@example.com",
		Password: "hunter2",
	})

	assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestLoginWrongPassword(t *testing.T) {
	service, userRepo, _, _, _ := newUserService()
	u := &entities.User{ID: uuid.New(), Email: "cook@example.com", Password: mustHash(t, "hunter2"), Verified: true}

	userRepo.On("GetUserByEmail", mock.Anything, u.Email).Return(u, nil)

	_, err := service.Login(context.Background(), domain.UserLoginRequest{Email: u.Email, Password: "wrong"})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	service, userRepo, _, _, _ := newUserService()

	userRepo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Login(context.Background(), domain.UserLoginRequest{Email: "nobody@example.com", Password: "whatever"})

	// Unknown email and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnverifiedReissuesCode(t *testing.T) {
	service, userRepo, _, verification, password := newUserService()
	u := &entities.User{ID: uuid.New(), Email: "cook@example.com", DisplayName: "Cook", Password: mustHash(t, "hunter2")}

	userRepo.On("GetUserByEmail", mock.Anything, u.Email).Return(u, nil)
	password.On("CheckResetInProgress", mock.Anything, u.Email).Return(nil)
	verification.On("EnsureCode", mock.Anything, u.Email, u.DisplayName, u.ID).Return(nil)

	_, err := service.Login(context.Background(), domain.UserLoginRequest{Email: u.Email, Password: "hunter2"})

	assert.ErrorIs(t, err, domain.ErrUserNotVerified)
	verification.AssertExpectations(t)
}

func TestLoginBlockedByResetRecord(t *testing.T) {
	service, userRepo, jwtService, _, password := newUserService()
	u := &entities.User{ID: uuid.New(), Email: "cook@example.com", Password: mustHash(t, "hunter2"), Verified: true}

	userRepo.On("GetUserByEmail", mock.Anything, u.Email).Return(u, nil)
	password.On("CheckResetInProgress", mock.Anything, u.Email).Return(domain.ErrPasswordResetInProgress)

	_, err := service.Login(context.Background(), domain.UserLoginRequest{Email: u.Email, Password: "hunter2"})

	assert.ErrorIs(t, err, domain.ErrPasswordResetInProgress)
	jwtService.AssertNotCalled(t, "GenerateTokenUser", mock.Anything, mock.Anything)
}

func TestLoginIssuesToken(t *testing.T) {
	service, userRepo, jwtService, _, password := newUserService()
	u := &entities.User{ID: uuid.New(), Email: "cook@example.com", Password: mustHash(t, "hunter2"), Verified: true, Role: domain.RoleUser}

	userRepo.On("GetUserByEmail", mock.Anything, u.Email).Return(u, nil)
	password.On("CheckResetInProgress", mock.Anything, u.Email).Return(nil)
	jwtService.On("GenerateTokenUser", u.ID.String(), domain.RoleUser).Return("signed-token")

	res, err := service.Login(context.Background(), domain.UserLoginRequest{Email: u.Email, Password: "hunter2"})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", res.Token)
	assert.Equal(t, domain.RoleUser, res.Role)
}

func TestSendVerificationAlreadyVerified(t *testing.T) {
	service, userRepo, _, verification, _ := newUserService()
	u := &entities.User{ID: uuid.New(), Email: "cook@example.com", Verified: true}

	userRepo.On("GetUserByEmail", mock.Anything, u.Email).Return(u, nil)

	err := service.SendVerification(context.Background(), u.Email)

	require.NoError(t, err)
	verification.AssertNotCalled(t, "IssueCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyEmailConsumesCode(t *testing.T) {
	service, userRepo, _, verification, _ := newUserService()
	userID := uuid.New()

	verification.On("CheckCode", mock.Anything, userID, "123456").Return(nil)
	userRepo.On("SetVerified", mock.Anything, userID).Return(int64(1), nil)
	verification.On("ConsumeCode", mock.Anything, userID).Return(nil)

	err := service.VerifyEmail(context.Background(), userID.String(), "123456")

	require.NoError(t, err)
	verification.AssertExpectations(t)
}

func TestVerifyEmailBadCode(t *testing.T) {
	service, userRepo, _, verification, _ := newUserService()
	userID := uuid.New()

	verification.On("CheckCode", mock.Anything, userID, "000000").Return(domain.ErrVerificationCodeInvalid)

	err := service.VerifyEmail(context.Background(), userID.String(), "000000")

	assert.ErrorIs(t, err, domain.ErrVerificationCodeInvalid)
	userRepo.AssertNotCalled(t, "SetVerified", mock.Anything, mock.Anything)
}
