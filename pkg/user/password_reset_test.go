package user

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dotEthan/Recipeasy-backend-sub000/domain"
	"github.com/dotEthan/Recipeasy-backend-sub000/entities"
)

// MockUserRepository is a mock implementation of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, u *entities.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, displayName, preferences string) error {
	args := m.Called(ctx, userID, displayName, preferences)
	return args.Error(0)
}

func (m *MockUserRepository) SetVerified(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) (int64, error) {
	args := m.Called(ctx, userID, hash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdatePasswordHistory(ctx context.Context, userID uuid.UUID, historyJSON string) (int64, error) {
	args := m.Called(ctx, userID, historyJSON)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetPasswordReset(ctx context.Context, userID uuid.UUID, expiresAt, requestedAt time.Time) (int64, error) {
	args := m.Called(ctx, userID, expiresAt, requestedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ClearPasswordReset(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) AddUserRecipe(ctx context.Context, userRecipe *entities.UserRecipe) error {
	args := m.Called(ctx, userRecipe)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*entities.UserRecipe, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserRecipe), args.Error(1)
}

func (m *MockUserRepository) GetUserRecipes(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.UserRecipe, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.UserRecipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdateUserRecipeAlterations(ctx context.Context, userID, recipeID uuid.UUID, alterations string) (int64, error) {
	args := m.Called(ctx, userID, recipeID, alterations)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) RemoveUserRecipe(ctx context.Context, userID, recipeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockJWTService is a mock implementation of the jwt.JWTService interface
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenUser(userId string, role string) string {
	args := m.Called(userId, role)
	return args.String(0)
}

func (m *MockJWTService) ValidateTokenUser(token string) (*jwtlib.Token, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwtlib.Token), args.Error(1)
}

func (m *MockJWTService) GetUserIDByToken(token string) (string, string, error) {
	args := m.Called(token)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockJWTService) GenerateTokenResetPassword(data map[string]any, duration time.Duration) (string, error) {
	args := m.Called(data, duration)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateTokenResetPassword(token string) (jwtlib.MapClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(jwtlib.MapClaims), args.Error(1)
}

// MockMailer is a mock implementation of the mailing.Mailer interface
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(toEmail, subject, body string) error {
	args := m.Called(toEmail, subject, body)
	return args.Error(0)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newPasswordService() (PasswordService, *MockUserRepository, *MockJWTService, *MockMailer) {
	userRepo := new(MockUserRepository)
	jwtService := new(MockJWTService)
	mailer := new(MockMailer)
	return NewPasswordService(userRepo, jwtService, mailer), userRepo, jwtService, mailer
}

func TestStartResetMailsLinkAndRecordsReset(t *testing.T) {
	service, userRepo, jwtService, mailer := newPasswordService()
	u := &entities.User{ID: uuid.New(), Email: "cook@example.com", DisplayName: "Cook"}

	userRepo.On("GetUserByEmail", mock.Anything, u.Email).Return(u, nil)
	jwtService.On("GenerateTokenResetPassword", mock.MatchedBy(func(data map[string]any) bool {
		return data["user_id"] == u.ID.String() && data["type"] == domain.ResetPasswordTokenType
	}), domain.PasswordResetDuration).Return("signed-token", nil)
	mailer.On("Send", u.Email, mock.Anything, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "signed-token")
	})).Return(nil)
	userRepo.On("SetPasswordReset", mock.Anything, u.ID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(int64(1), nil)

	err := service.StartReset(context.Background(), u.Email)

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
	jwtService.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestStartResetMailFailureLeavesNoRecord(t *testing.T) {
	service, userRepo, jwtService, mailer := newPasswordService()
	u := &entities.User{ID: uuid.New(), Email: "cook@example.com"}

	userRepo.On("GetUserByEmail", mock.Anything, u.Email).Return(u, nil)
	jwtService.On("GenerateTokenResetPassword", mock.Anything, mock.Anything).Return("signed-token", nil)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	err := service.StartReset(context.Background(), u.Email)

	assert.ErrorIs(t, err, domain.ErrMailNotSent)
	userRepo.AssertNotCalled(t, "SetPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStartResetUnknownEmail(t *testing.T) {
	service, userRepo, _, _ := newPasswordService()

	userRepo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	err := service.StartReset(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestValidateResetTokenWrongType(t *testing.T) {
	service, _, jwtService, _ := newPasswordService()

	jwtService.On("ValidateTokenResetPassword", "tok").Return(jwtlib.MapClaims{
		"type":    "something-else",
		"user_id": uuid.New().String(),
	}, nil)

	_, err := service.ValidateResetToken("tok", domain.ResetPasswordTokenType)

	assert.ErrorIs(t, err, domain.ErrResetTokenWrongType)
}

func TestValidateResetTokenMissingUser(t *testing.T) {
	service, _, jwtService, _ := newPasswordService()

	jwtService.On("ValidateTokenResetPassword", "tok").Return(jwtlib.MapClaims{
		"type": domain.ResetPasswordTokenType,
	}, nil)

	_, err := service.ValidateResetToken("tok", domain.ResetPasswordTokenType)

	assert.ErrorIs(t, err, domain.ErrResetTokenMissingUser)
}

func TestFinishResetRejectsCurrentPassword(t *testing.T) {
	service, userRepo, jwtService, _ := newPasswordService()
	u := &entities.User{ID: uuid.New(), Password: mustHash(t, "hunter2")}

	jwtService.On("ValidateTokenResetPassword", "tok").Return(jwtlib.MapClaims{
		"type": domain.ResetPasswordTokenType, "user_id": u.ID.String(),
	}, nil)
	userRepo.On("GetUserByID", mock.Anything, u.ID.String()).Return(u, nil)

	err := service.FinishReset(context.Background(), "tok", "hunter2")

	assert.ErrorIs(t, err, domain.ErrPasswordReused)
	userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestFinishResetRejectsHistoricalPassword(t *testing.T) {
	service, userRepo, jwtService, _ := newPasswordService()
	oldHash := mustHash(t, "previous-one")
	history, err := json.Marshal([]domain.PasswordHistoryEntry{{Hash: oldHash, DeprecatedAt: time.Now()}})
	require.NoError(t, err)
	u := &entities.User{ID: uuid.New(), Password: mustHash(t, "hunter2"), PasswordHistory: string(history)}

	jwtService.On("ValidateTokenResetPassword", "tok").Return(jwtlib.MapClaims{
		"type": domain.ResetPasswordTokenType, "user_id": u.ID.String(),
	}, nil)
	userRepo.On("GetUserByID", mock.Anything, u.ID.String()).Return(u, nil)

	err = service.FinishReset(context.Background(), "tok", "previous-one")

	assert.ErrorIs(t, err, domain.ErrPasswordReused)
}

func TestFinishResetPushesHistoryNewestFirstAndBounded(t *testing.T) {
	service, userRepo, jwtService, _ := newPasswordService()

	h1 := mustHash(t, "first")
	h2 := mustHash(t, "second")
	h3 := mustHash(t, "third")
	currentHash := mustHash(t, "fourth")
	existing, err := json.Marshal([]domain.PasswordHistoryEntry{
		{Hash: h3, DeprecatedAt: time.Now()},
		{Hash: h2, DeprecatedAt: time.Now()},
		{Hash: h1, DeprecatedAt: time.Now()},
	})
	require.NoError(t, err)
	u := &entities.User{ID: uuid.New(), Password: currentHash, PasswordHistory: string(existing)}

	jwtService.On("ValidateTokenResetPassword", "tok").Return(jwtlib.MapClaims{
		"type": domain.ResetPasswordTokenType, "user_id": u.ID.String(),
	}, nil)
	userRepo.On("GetUserByID", mock.Anything, u.ID.String()).Return(u, nil)
	userRepo.On("UpdatePassword", mock.Anything, u.ID, mock.AnythingOfType("string")).Return(int64(1), nil)
	userRepo.On("UpdatePasswordHistory", mock.Anything, u.ID, mock.MatchedBy(func(encoded string) bool {
		var got []domain.PasswordHistoryEntry
		if err := json.Unmarshal([]byte(encoded), &got); err != nil {
			return false
		}
		// The superseded hash leads, the cap holds, and the oldest
		// entry is the one evicted.
		return len(got) == domain.PasswordHistoryLimit &&
			got[0].Hash == currentHash &&
			got[1].Hash == h3 &&
			got[2].Hash == h2
	})).Return(int64(1), nil)
	userRepo.On("ClearPasswordReset", mock.Anything, u.ID).Return(int64(1), nil)

	err = service.FinishReset(context.Background(), "tok", "a-brand-new-one")

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestFinishResetUnmatchedHistoryWrite(t *testing.T) {
	service, userRepo, jwtService, _ := newPasswordService()
	u := &entities.User{ID: uuid.New(), Password: mustHash(t, "hunter2"), PasswordHistory: "[]"}

	jwtService.On("ValidateTokenResetPassword", "tok").Return(jwtlib.MapClaims{
		"type": domain.ResetPasswordTokenType, "user_id": u.ID.String(),
	}, nil)
	userRepo.On("GetUserByID", mock.Anything, u.ID.String()).Return(u, nil)
	userRepo.On("UpdatePassword", mock.Anything, u.ID, mock.Anything).Return(int64(1), nil)
	userRepo.On("UpdatePasswordHistory", mock.Anything, u.ID, mock.Anything).Return(int64(0), nil)

	err := service.FinishReset(context.Background(), "tok", "a-brand-new-one")

	assert.ErrorIs(t, err, domain.ErrPasswordHistoryNotStored)
	userRepo.AssertNotCalled(t, "ClearPasswordReset", mock.Anything, mock.Anything)
}

func TestCheckResetInProgressActiveRecordPasses(t *testing.T) {
	service, userRepo, _, _ := newPasswordService()
	expires := time.Now().Add(30 * time.Minute)
	u := &entities.User{ID: uuid.New(), Email: "cook@example.com", ResetInProgress: true, ResetExpiresAt: &expires}

	userRepo.On("GetUserByEmail", mock.Anything, u.Email).Return(u, nil)

	err := service.CheckResetInProgress(context.Background(), u.Email)

	require.NoError(t, err)
	userRepo.AssertNotCalled(t, "ClearPasswordReset", mock.Anything, mock.Anything)
}

func TestCheckResetInProgressExpiredRecordBlocksAndClears(t *testing.T) {
	service, userRepo, _, _ := newPasswordService()
	expires := time.Now().Add(-time.Minute)
	u := &entities.User{ID: uuid.New(), Email: "cook@example.com", ResetInProgress: true, ResetExpiresAt: &expires}

	userRepo.On("GetUserByEmail", mock.Anything, u.Email).Return(u, nil)
	userRepo.On("ClearPasswordReset", mock.Anything, u.ID).Return(int64(1), nil)

	err := service.CheckResetInProgress(context.Background(), u.Email)

	assert.ErrorIs(t, err, domain.ErrPasswordResetInProgress)
	userRepo.AssertExpectations(t)
}

func TestCheckResetInProgressNoRecord(t *testing.T) {
	service, userRepo, _, _ := newPasswordService()
	u := &entities.User{ID: uuid.New(), Email: "cook@example.com"}

	userRepo.On("GetUserByEmail", mock.Anything, u.Email).Return(u, nil)

	err := service.CheckResetInProgress(context.Background(), u.Email)

	require.NoError(t, err)
}
