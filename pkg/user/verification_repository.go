package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dotEthan/Recipeasy-backend-sub000/entities"
)

type (
	VerificationCodeRepository interface {
		UpsertCode(ctx context.Context, code *entities.VerificationCode) error
		GetCodeByUserID(ctx context.Context, userID uuid.UUID) (*entities.VerificationCode, error)
		// DeleteCodeByUserID is idempotent; deleting an absent code is
		// not an error.
		DeleteCodeByUserID(ctx context.Context, userID uuid.UUID) error
	}

	verificationCodeRepository struct {
		db *gorm.DB
	}
)

func NewVerificationCodeRepository(db *gorm.DB) VerificationCodeRepository {
	return &verificationCodeRepository{db: db}
}

func (r *verificationCodeRepository) UpsertCode(ctx context.Context, code *entities.VerificationCode) error {
	var existing entities.VerificationCode
	err := r.db.WithContext(ctx).
		Where("user_id = ?", code.UserID).
		First(&existing).Error
	if err == nil {
		existing.Code = code.Code
		return r.db.WithContext(ctx).Save(&existing).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *verificationCodeRepository) GetCodeByUserID(ctx context.Context, userID uuid.UUID) (*entities.VerificationCode, error) {
	var code entities.VerificationCode
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&code).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *verificationCodeRepository) DeleteCodeByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entities.VerificationCode{}).Error
}
