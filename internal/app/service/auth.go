package service

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// AuthIface defines the interface for JWT authentication used in middleware.
type AuthIface interface {
	BuildJWTString(usename string, dept string) (string, error)
	ParseClaims(c *http.Cookie) (*Claims, error)
	ParseRawJWT(tokenString string) (*Claims, error)
}

// Claims identify the caller: the user name and the department whose
// prompts they work with.
type Claims struct {
	jwt.RegisteredClaims
	Usename string `json:"usename"`
	Dept    string `json:"dept"`
}

// TokenExp defines the expiration time of the JWT token.
const TokenExp = time.Hour * 24 * 30

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid token or claims")

// Auth signs and verifies identity tokens with a shared HMAC secret.
type Auth struct {
	secret []byte
	now    func() time.Time
}

func NewAuth(secret string) *Auth {
	return &Auth{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// BuildJWTString issues a token for usename in dept.
func (a *Auth) BuildJWTString(usename string, dept string) (string, error) {
	if usename == "" || dept == "" {
		return "", ErrInvalidToken
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   usename,
			IssuedAt:  jwt.NewNumericDate(a.now()),
			ExpiresAt: jwt.NewNumericDate(a.now().Add(TokenExp)),
		},
		Usename: usename,
		Dept:    dept,
	})

	return token.SignedString(a.secret)
}

// ParseClaims parses the token carried by the cookie.
func (a *Auth) ParseClaims(c *http.Cookie) (*Claims, error) {
	return a.ParseRawJWT(c.Value)
}

func (a *Auth) ParseRawJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Usename == "" || claims.Dept == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
