package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dotEthan/Recipeasy-backend-sub000/domain"
	"github.com/dotEthan/Recipeasy-backend-sub000/entities"
	"github.com/dotEthan/Recipeasy-backend-sub000/internal/utils/mailing"
)

type (
	// EmailVerificationService owns the 6-digit code lifecycle: issue on
	// registration or first unverified login, check on submission,
	// consume once checked.
	EmailVerificationService interface {
		IssueCode(ctx context.Context, email, displayName string, userID uuid.UUID) error
		EnsureCode(ctx context.Context, email, displayName string, userID uuid.UUID) error
		CheckCode(ctx context.Context, userID uuid.UUID, code string) error
		ConsumeCode(ctx context.Context, userID uuid.UUID) error
	}

	emailVerificationService struct {
		codeRepository VerificationCodeRepository
		mailer         mailing.Mailer
	}
)

func NewEmailVerificationService(codeRepository VerificationCodeRepository, mailer mailing.Mailer) EmailVerificationService {
	return &emailVerificationService{
		codeRepository: codeRepository,
		mailer:         mailer,
	}
}

// IssueCode persists a fresh 6-digit code, then mails it. The code is
// left in place when the send fails so the caller can retry the send
// without reissuing.
func (s *emailVerificationService) IssueCode(ctx context.Context, email, displayName string, userID uuid.UUID) error {
	code, err := generateCode()
	if err != nil {
		return err
	}

	if err := s.codeRepository.UpsertCode(ctx, &entities.VerificationCode{
		ID:     uuid.New(),
		UserID: userID,
		Code:   code,
	}); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your Recipeasy verification code is:</p><h2>%s</h2><p>Enter it in the app to verify your email address.</p>",
		displayName, code,
	)
	if err := s.mailer.Send(email, "Verify your Recipeasy email", body); err != nil {
		return domain.ErrMailNotSent
	}
	return nil
}

// EnsureCode issues a code only when none is stored for the user yet.
func (s *emailVerificationService) EnsureCode(ctx context.Context, email, displayName string, userID uuid.UUID) error {
	_, err := s.codeRepository.GetCodeByUserID(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.IssueCode(ctx, email, displayName, userID)
}

func (s *emailVerificationService) CheckCode(ctx context.Context, userID uuid.UUID, code string) error {
	stored, err := s.codeRepository.GetCodeByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrVerificationCodeInvalid
		}
		return err
	}
	if stored.Code != code {
		return domain.ErrVerificationCodeInvalid
	}
	return nil
}

func (s *emailVerificationService) ConsumeCode(ctx context.Context, userID uuid.UUID) error {
	return s.codeRepository.DeleteCodeByUserID(ctx, userID)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
