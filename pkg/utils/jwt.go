package utils

import (
	"time"

	"github.com/celaops/cela/pkg/errs"
	"github.com/golang-jwt/jwt"
)

// Claims is the decoded payload carried by an access token. Scopes are the
// permission strings aggregated at issue time; they go stale if roles change
// and stay stale until the token is renewed.
type Claims struct {
	UserID int64
	Scopes []string
}

func CreateJWTToken(userID int64, scopes []string, jwtSecretKey string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{}
	claims["user_id"] = userID
	claims["scopes"] = scopes
	claims["exp"] = time.Now().Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(jwtSecretKey))
}

func ParseJWTToken(tokenString string, jwtSecretKey string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrNotLoggedIn
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return Claims{}, errs.ErrExpiredToken
		}
		return Claims{}, errs.ErrNotLoggedIn
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, errs.ErrNotLoggedIn
	}

	userID, ok := mapClaims["user_id"].(float64)
	if !ok {
		return Claims{}, errs.ErrNotLoggedIn
	}

	parsed := Claims{UserID: int64(userID)}
	if raw, ok := mapClaims["scopes"].([]interface{}); ok {
		for _, scope := range raw {
			if s, ok := scope.(string); ok {
				parsed.Scopes = append(parsed.Scopes, s)
			}
		}
	}

	return parsed, nil
}
