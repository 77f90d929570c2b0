package domain

import (
	"errors"
	"time"
)

const (
	// Superseded password hashes kept for reuse checks. Oldest evicted.
	PasswordHistoryLimit = 3

	// Reset tokens and reset records share the same lifetime.
	PasswordResetDuration = time.Hour

	ResetPasswordTokenType = "reset-password"
)

var (
	MessageSuccessRegister         = "registration successful"
	MessageSuccessLogin            = "login successful"
	MessageSuccessGetMe            = "success get user"
	MessageSuccessUpdateUser       = "user updated successfully"
	MessageSuccessSendVerification = "verification email sent"
	MessageSuccessVerifyEmail      = "email verified successfully"
	MessageSuccessForgotPassword   = "password reset email sent"
	MessageSuccessValidateReset    = "reset token valid"
	MessageSuccessResetPassword    = "password reset successfully"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetMe            = "failed to get user"
	MessageFailedUpdateUser       = "failed to update user"
	MessageFailedSendVerification = "failed to send verification email"
	MessageFailedVerifyEmail      = "failed to verify email"
	MessageFailedForgotPassword   = "failed to start password reset"
	MessageFailedValidateReset    = "failed to validate reset token"
	MessageFailedResetPassword    = "failed to reset password"

	ErrEmailAlreadyRegistered    = errors.New("email already registered")
	ErrUserNotFound              = errors.New("user not found")
	ErrInvalidCredentials        = errors.New("invalid email or password")
	ErrUserNotVerified           = errors.New("email not verified")
	ErrVerificationCodeInvalid   = errors.New("verification code invalid")
	ErrPasswordResetInProgress   = errors.New("password reset already in progress")
	ErrPasswordReused            = errors.New("new password matches a previous password")
	ErrResetTokenWrongType       = errors.New("token is not a password reset token")
	ErrResetTokenMissingUser     = errors.New("reset token carries no user id")
	ErrResetSecretMissing        = errors.New("password reset signing secret not configured")
	ErrPasswordNotUpdated        = errors.New("password update was not applied")
	ErrPasswordHistoryNotStored  = errors.New("password history update was not applied")
	ErrPasswordResetNotRecorded  = errors.New("password reset record was not stored")
	ErrPasswordResetNotCleared   = errors.New("password reset record was not cleared")
	ErrMailNotSent               = errors.New("mail transport rejected the message")
)

type (
	UserRegisterRequest struct {
		Email       string `json:"email" validate:"required,email"`
		DisplayName string `json:"display_name" validate:"required,min=2"`
		Password    string `json:"password" validate:"required,min=8"`
	}

	UserRegisterResponse struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Verified    bool   `json:"verified"`
	}

	UserLoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	UserLoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UserUpdateRequest struct {
		DisplayName string `json:"display_name" validate:"omitempty,min=2"`
		Preferences string `json:"preferences"`
	}

	UserMeResponse struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Verified    bool   `json:"verified"`
		Role        string `json:"role"`
		Preferences string `json:"preferences"`
	}

	SendVerificationRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	VerifyEmailRequest struct {
		Code string `json:"code" validate:"required,len=6,numeric"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ValidateResetTokenRequest struct {
		Code string `json:"code" validate:"required"`
	}

	ResetPasswordRequest struct {
		Code     string `json:"code" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	// PasswordHistoryEntry is one superseded hash in the bounded cache.
	PasswordHistoryEntry struct {
		Hash         string    `json:"hash"`
		DeprecatedAt time.Time `json:"deprecated_at"`
	}
)
