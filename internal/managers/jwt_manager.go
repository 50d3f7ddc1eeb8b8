package managers

import (
	"errors"
	"fmt"
	"time"

	"url-shrinker/internal/schemas"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const (
	issuer = "url-shrinker"

	sessionAudience    = "session"
	activationAudience = "activation"

	// SessionTTL is the lifetime of a session token and its cookie.
	SessionTTL = time.Hour
	// ActivationTTL is the lifetime of an activation token.
	ActivationTTL = 2 * time.Hour
)

// ErrInvalidToken is returned for any token that fails signature, algorithm, audience or expiry checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// JWTMgr issues and verifies the signed tokens of the application.
type JWTMgr interface {
	GenerateSessionJWT(user *schemas.User, sessionId string) (string, error)
	ValidateSessionJWT(tokenString string) (*SessionClaims, error)
	GenerateActivationJWT(userId string) (string, error)
	ValidateActivationJWT(tokenString string) (string, error)
}

// SessionClaims are the identity claims carried by a session token.
// Subject is the user id, ID is the opaque session id.
type SessionClaims struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT generation, signing, and validation.
// Session and activation tokens are signed with independent HMAC secrets.
type JWTManager struct {
	authKey       []byte
	activationKey []byte
	now           func() time.Time
}

// NewJWTManager creates a new JWTManager with the session and activation secrets.
func NewJWTManager(authKey, activationKey string) JWTMgr {
	log.Info("Initializing JWT manager")
	return &JWTManager{
		authKey:       []byte(authKey),
		activationKey: []byte(activationKey),
		now:           time.Now,
	}
}

// GenerateSessionJWT issues a one hour session token for the user, bound to the given session id.
func (jm *JWTManager) GenerateSessionJWT(user *schemas.User, sessionId string) (string, error) {
	now := jm.now()
	claims := &SessionClaims{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			ID:        sessionId,
		},
	}
	return issueToken(claims, jm.authKey)
}

// ValidateSessionJWT verifies a session token and returns its claims.
func (jm *JWTManager) ValidateSessionJWT(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := verifyToken(tokenString, claims, jm.authKey, sessionAudience, jm.now); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateActivationJWT issues a two hour activation token for the given user id.
func (jm *JWTManager) GenerateActivationJWT(userId string) (string, error) {
	now := jm.now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userId,
		Audience:  jwt.ClaimStrings{activationAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ActivationTTL)),
	}
	return issueToken(claims, jm.activationKey)
}

// ValidateActivationJWT verifies an activation token and returns the user id it was issued for.
func (jm *JWTManager) ValidateActivationJWT(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := verifyToken(tokenString, claims, jm.activationKey, activationAudience, jm.now); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func issueToken(claims jwt.Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

func verifyToken(tokenString string, claims jwt.Claims, key []byte, audience string, now func() time.Time) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method %v", token.Header["alg"])
		}
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return ErrInvalidToken
	}

	return nil
}
