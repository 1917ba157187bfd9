package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	AdminCookieName = "admin_token"
	adminSubject    = "admin"
)

var (
	ErrInvalidCredentials = errors.New("invalid admin password")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService checks the shared admin secret and issues session tokens.
type AuthService struct {
	passwordHash string
	password     string
	jwtSecret    string
	jwtExpiry    time.Duration
	isProduction bool
}

func NewAuthService(
	passwordHash string,
	password string,
	jwtSecret string,
	jwtExpiry time.Duration,
	isProduction bool,
) *AuthService {
	return &AuthService{
		passwordHash: passwordHash,
		password:     password,
		jwtSecret:    jwtSecret,
		jwtExpiry:    jwtExpiry,
		isProduction: isProduction,
	}
}

// Login checks the password and returns a signed token with its expiry.
func (s *AuthService) Login(password string) (string, time.Time, error) {
	err := s.ComparePassword(password)
	if err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	expiry := time.Now().Add(s.jwtExpiry)
	token, err := s.GenerateJWT(expiry)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiry, nil
}

// ComparePassword prefers the bcrypt hash and falls back to the plain secret.
func (s *AuthService) ComparePassword(password string) error {
	if password == "" {
		return ErrInvalidCredentials
	}
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password))
	}
	if s.password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) GenerateJWT(expiry time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": adminSubject,
		"jti": uuid.NewString(),
		"exp": expiry.Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims.GetSubject()
	if sub != adminSubject {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
