package utils

import (
	"fmt"
	"math/rand"
	"time"

	"kaifacademy/config"

	"golang.org/x/crypto/bcrypt"
)

const OTPValidity = 10 * time.Minute

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10))
	}
	return otp
}

// HashPassword hashes with the configured bcrypt cost
func HashPassword(password string) (string, error) {
	cost := bcrypt.DefaultCost
	if config.AppConfig != nil && config.AppConfig.SaltRound >= bcrypt.MinCost && config.AppConfig.SaltRound <= bcrypt.MaxCost {
		cost = config.AppConfig.SaltRound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
