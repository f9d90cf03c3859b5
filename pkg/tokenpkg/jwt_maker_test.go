package tokenpkg

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/koinsave/ledger/pkg/randompkg"
)

func TestNewJWTMaker(t *testing.T) {
	t.Parallel()

	// OK
	secretKey := strings.Repeat("x", 32)

	_, err := NewJWTMaker(secretKey)
	if err != nil {
		t.Errorf("NewJWTMaker(%v) returned error: %v", secretKey, err)
	}

	// shortKeyError
	shortKey := strings.Repeat("x", 30)

	got, err := NewJWTMaker(shortKey)
	if err.Error() != fmt.Errorf("invalid key size: must be at least %d characters", minSecretKeySize).Error() {
		t.Errorf("NewJWTMaker(%v) returned unexpected error: %v", shortKey, err)
	}

	if got != nil {
		t.Errorf("JWTMaker = %+v, want nil", got)
	}
}

func TestJWTMaker(t *testing.T) {
	t.Parallel()

	secretKey := randompkg.String(32)

	maker, err := NewJWTMaker(secretKey)
	if err != nil {
		t.Fatalf("NewJWTMaker(%v) returned error: %v", secretKey, err)
	}

	email := randompkg.Email()
	accountID := int64(randompkg.Intn(1000) + 1)
	duration := time.Minute

	token, payload, err := maker.CreateToken(email, accountID, duration)
	if err != nil {
		t.Errorf("maker.CreateToken(%v, %v, %v) returned error: %v", email, accountID, duration, err)
	}

	_, err = maker.VerifyToken(token)
	if err != nil {
		t.Errorf("maker.VerifyToken(%v) returned error: %v", token, err)
	}

	want := &Payload{
		Email:     email,
		AccountID: accountID,
		IssuedAt:  time.Now(),
		ExpiredAt: time.Now().Add(duration),
	}

	ignore := cmpopts.IgnoreFields(Payload{}, "ID")
	delta := cmpopts.EquateApproxTime(time.Minute)

	if diff := cmp.Diff(payload, want, ignore, delta); diff != "" {
		t.Errorf("maker.CreateToken(%v, %v, %v) returned unexpected diff: %v", email, accountID, duration, diff)
	}
}

func TestExpiredJWTToken(t *testing.T) {
	t.Parallel()

	secretKey := randompkg.String(32)

	maker, err := NewJWTMaker(secretKey)
	if err != nil {
		t.Fatalf("NewJWTMaker(%v) returned error: %v", secretKey, err)
	}

	email := randompkg.Email()
	duration := -time.Minute

	token, _, err := maker.CreateToken(email, 1, duration)
	if err != nil {
		t.Errorf("maker.CreateToken(%v, 1, %v) returned error: %v", email, duration, err)
	}

	_, err = maker.VerifyToken(token)
	if err != ErrExpiredToken {
		t.Errorf("maker.VerifyToken(%v) returned unexpected error: %v", token, err)
	}
}

func TestJWTTokenSignedWithDifferentKey(t *testing.T) {
	t.Parallel()

	maker1, err := NewJWTMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("NewJWTMaker returned error: %v", err)
	}

	maker2, err := NewJWTMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("NewJWTMaker returned error: %v", err)
	}

	token, _, err := maker1.CreateToken(randompkg.Email(), 1, time.Minute)
	if err != nil {
		t.Errorf("maker1.CreateToken returned error: %v", err)
	}

	_, err = maker2.VerifyToken(token)
	if err != ErrInvalidToken {
		t.Errorf("maker2.VerifyToken(%v) returned unexpected error: %v", token, err)
	}
}

func TestInvalidJWTTokenAlgNone(t *testing.T) {
	t.Parallel()

	email := randompkg.Email()
	duration := time.Minute

	payload, err := NewPayload(email, 1, duration)
	if err != nil {
		t.Errorf("NewPayload(%v, 1, %v) returned error: %v", email, duration, err)
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodNone, payload)

	token, err := jwtToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Errorf("jwtToken.SignedString(%v) returned error: %v", jwt.UnsafeAllowNoneSignatureType, err)
	}

	secretKey := randompkg.String(32)

	maker, err := NewJWTMaker(secretKey)
	if err != nil {
		t.Fatalf("NewJWTMaker(%v) returned error: %v", secretKey, err)
	}

	_, err = maker.VerifyToken(token)
	if err != ErrInvalidToken {
		t.Errorf("maker.VerifyToken(%v) returned error: %v", token, err)
	}
}
