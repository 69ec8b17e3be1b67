package common

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrOTPNotFound    = errors.New("otp not found or expired")
	ErrOTPMismatch    = errors.New("otp does not match")
	ErrOTPMaxAttempts = errors.New("otp attempt limit reached")
)

const (
	OTPTTL         = 10 * time.Minute
	otpMaxAttempts = 5
)

type otpRecord struct {
	Code     string `json:"code"`
	Attempts int    `json:"attempts"`
}

// OTPService issues and verifies one-time login codes keyed by email.
// Codes live in Redis so every instance sees the same state.
type OTPService struct {
	redis *redis.Client
}

func NewOTPService(redis *redis.Client) *OTPService {
	return &OTPService{
		redis: redis,
	}
}

// IssueOTP mints a fresh 6-digit code for the email, replacing any code
// still outstanding. The caller is responsible for delivering it.
func (s *OTPService) IssueOTP(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	data, err := json.Marshal(otpRecord{Code: code})
	if err != nil {
		return "", fmt.Errorf("failed to marshal otp: %w", err)
	}

	if err := s.redis.Set(ctx, "otp:"+email, data, OTPTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}
	return code, nil
}

// VerifyOTP checks the code and consumes it on success. Each wrong guess
// counts against the attempt limit; hitting the limit burns the code.
func (s *OTPService) VerifyOTP(ctx context.Context, email, code string) error {
	key := "otp:" + email

	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrOTPNotFound
		}
		return fmt.Errorf("failed to get otp: %w", err)
	}

	var record otpRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return fmt.Errorf("failed to unmarshal otp: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) == 1 {
		if err := s.redis.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to consume otp: %w", err)
		}
		return nil
	}

	record.Attempts++
	if record.Attempts >= otpMaxAttempts {
		_ = s.redis.Del(ctx, key).Err()
		return ErrOTPMaxAttempts
	}

	data, marshalErr := json.Marshal(record)
	if marshalErr == nil {
		ttl, ttlErr := s.redis.TTL(ctx, key).Result()
		if ttlErr == nil && ttl > 0 {
			_ = s.redis.Set(ctx, key, data, ttl).Err()
		}
	}
	return ErrOTPMismatch
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
