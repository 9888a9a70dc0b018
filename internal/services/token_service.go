package services

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

const (
	verificationTokenLength   = 32
	verificationTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// TokenService выпускает и сравнивает коды подтверждения email
type TokenService interface {
	// Issue - 32 символа [A-Za-z0-9] из crypto/rand (~190 бит)
	Issue() (string, error)
	// Matches сравнивает за постоянное время
	Matches(stored, presented string) bool
}

type TokenServiceImpl struct{}

func NewTokenService() TokenService {
	return &TokenServiceImpl{}
}

func (s *TokenServiceImpl) Issue() (string, error) {
	max := big.NewInt(int64(len(verificationTokenAlphabet)))
	buf := make([]byte, verificationTokenLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate verification token: %w", err)
		}
		buf[i] = verificationTokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func (s *TokenServiceImpl) Matches(stored, presented string) bool {
	if stored == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
