package jwt

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	RefreshCookieName = "refresh_token"
)

type Service interface {
	GenerateAccessToken(caller identity.Caller) (token string, expiresAt int64, err error)
	GenerateRefreshToken(staffID string) (token string, expiresAt int64, err error)
	// ParseRefreshToken verifies signature, expiry and type and returns the staff id.
	ParseRefreshToken(token string) (staffID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	ClearRefreshTokenCookie() *http.Cookie
}

type JWTService struct {
	accessTokenExpiration  time.Duration
	refreshTokenExpiration time.Duration
	secureCookie           bool
	tokenAuth              *jwtauth.JWTAuth
	now                    func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService expects expirations already validated as Go durations.
func NewJWTService(secretKey string, accessTokenExpiration, refreshTokenExpiration time.Duration, secureCookie bool) Service {
	return &JWTService{
		accessTokenExpiration:  accessTokenExpiration,
		refreshTokenExpiration: refreshTokenExpiration,
		secureCookie:           secureCookie,
		tokenAuth:              jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                    time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(caller identity.Caller) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		identity.ClaimStaffID:      caller.StaffID,
		identity.ClaimEmployeeCode: caller.EmployeeCode,
		identity.ClaimRole:         string(caller.Role),
		"type":                     TokenTypeAccess,
		"exp":                      expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(staffID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.refreshTokenExpiration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		identity.ClaimStaffID: staffID,
		"exp":                 expiresAt,
		"type":                TokenTypeRefresh,
		// Distinguishes refresh tokens minted within the same second.
		"iat_nano": j.now().UnixNano(),
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ParseRefreshToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeRefresh {
		return "", jwt.ErrInvalidJWT()
	}

	staffID, ok := token.Get(identity.ClaimStaffID)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	id, ok := staffID.(string)
	if !ok || id == "" {
		return "", jwt.ErrInvalidJWT()
	}
	return id, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/api/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) ClearRefreshTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}
