package utils

import (
	"fmt"

	"github.com/golang-jwt/jwt"
	"github.com/spf13/viper"

	"github.com/fdapulse/shortage-etl/internal/pkg/constants"
)

type AuthToken struct {
	Secret string `json:"secret"`
	jwt.StandardClaims
}

// ParseAuthToken validates the admin token protecting mutating endpoints.
func ParseAuthToken(raw string) (*AuthToken, error) {
	claims := &AuthToken{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(viper.GetString(constants.ViperSecretKey)), nil
	})
	if err != nil {
		return nil, constants.ErrUnauthorized
	}
	if !token.Valid {
		return nil, constants.ErrUnauthorized
	}

	return claims, nil
}
