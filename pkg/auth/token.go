package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shopstack-labs/shopstack-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

func checkJWTConfig(cfg config.JWTConfig, forMint bool) error {
	if cfg.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if forMint {
		if cfg.Issuer == "" {
			return fmt.Errorf("jwt issuer is required")
		}
		if cfg.ExpirationMinutes <= 0 {
			return fmt.Errorf("jwt expiration minutes must be positive")
		}
	}
	return nil
}

func hmacKeyFunc(secret string) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtSigningMethod {
			return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
		}
		return []byte(secret), nil
	}
}

// MintAccessToken issues a signed JWT for the provided payload using the configured TTL.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	if err := checkJWTConfig(cfg, true); err != nil {
		return "", err
	}
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", payload.Role)
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	ttl := time.Duration(cfg.ExpirationMinutes) * time.Minute
	claims := AccessTokenClaims{
		UserID: payload.UserID,
		Role:   payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

func parseClaims(cfg config.JWTConfig, tokenString string, skipClaimValidation bool) (*AccessTokenClaims, error) {
	if err := checkJWTConfig(cfg, false); err != nil {
		return nil, err
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	}
	if skipClaimValidation {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &AccessTokenClaims{}
	if _, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, claims, hmacKeyFunc(cfg.Secret)); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseAccessToken validates the JWT string and returns typed claims.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	return parseClaims(cfg, tokenString, false)
}

// ParseAccessTokenAllowExpired parses the JWT without validating exp or nbf,
// so a refresh request can still read the jti of an expired token.
func ParseAccessTokenAllowExpired(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	return parseClaims(cfg, tokenString, true)
}
