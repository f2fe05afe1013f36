package security

import (
	"errors"
	"time"

	"eclass/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie jwtauth.Verifier reads the session token from.
const SessionCookieName = "jwt"

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateSessionToken issues the signed session token for a logged-in user.
// The jti identifies the session in the session store; revoking it ends the
// session even though the token itself stays valid until exp.
func GenerateSessionToken(userID, role string) (token, jti string, err error) {
	jti = uuid.NewString()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"jti":     jti,
		"exp":     time.Now().Add(config.AppConfig.SessionTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, token, err = TokenAuth.Encode(claims)
	return token, jti, err
}

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetSessionIDFromClaims(claims map[string]interface{}) (string, error) {
	jti, ok := claims["jti"].(string)
	if !ok {
		return "", errors.New("jti claim is missing or not a string")
	}
	return jti, nil
}
