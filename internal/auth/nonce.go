package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ActionSubmitApplication - действие публичной формы заявки
const ActionSubmitApplication = "cam_submit_application"

var ErrInvalidNonce = errors.New("invalid nonce")

type nonceClaims struct {
	Action string `json:"action"`
	jwt.RegisteredClaims
}

// NonceManager выдает короткоживущие anti-forgery токены для публичных форм.
// Токен привязан к действию, токен одной формы не подходит другой.
type NonceManager struct {
	secret []byte
	ttl    time.Duration
}

func NewNonceManager(secret string, ttl time.Duration) *NonceManager {
	return &NonceManager{secret: []byte("nonce:" + secret), ttl: ttl}
}

// Issue выпускает nonce для действия
func (m *NonceManager) Issue(action string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)
	claims := &nonceClaims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify проверяет подпись, срок и действие
func (m *NonceManager) Verify(nonce, action string) error {
	if nonce == "" {
		return ErrInvalidNonce
	}

	claims := &nonceClaims{}
	token, err := jwt.ParseWithClaims(nonce, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidNonce
	}
	if claims.Action != action {
		return ErrInvalidNonce
	}
	return nil
}
