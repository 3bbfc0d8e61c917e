package auth

import (
	"time"

	"platter/config"
	"platter/internal/domain/entity"
	"platter/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultTokenTTL is the fixed validity window of a session token.
const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidToken is returned by Verify for any token that cannot be trusted.
var ErrInvalidToken = errors.New("invalid session token")

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte        // HMAC key, injected once at construction.
	ttl    time.Duration // Time-to-live for session tokens.
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.JWT == nil || cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := cfg.JWT.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &jwtService{
		secret: []byte(cfg.JWT.Secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token carrying the actor id under the variant's claim key.
func (s *jwtService) Issue(actorID uuid.UUID, kind entity.ActorKind) (string, time.Time, error) {
	claimKey := kind.ClaimKey()
	if claimKey == "" {
		return "", time.Time{}, errors.Errorf("unknown actor kind %q", kind)
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)
	claims := jwt.MapClaims{
		claimKey: actorID.String(),
		"kind":   kind.String(),
		"iat":    issuedAt.Unix(),
		"exp":    expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to sign session token")
	}

	return token, expiresAt, nil
}

// Verify parses the token, checks signature and expiry, and extracts the variant's actor id.
func (s *jwtService) Verify(tokenString string, kind entity.ActorKind) (uuid.UUID, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, errors.Wrap(ErrInvalidToken, "failed to parse token")
	}

	raw, ok := claims[kind.ClaimKey()].(string)
	if !ok {
		return uuid.Nil, errors.Wrapf(ErrInvalidToken, "token carries no %s claim", kind.ClaimKey())
	}

	actorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrap(ErrInvalidToken, "malformed actor id in token")
	}

	return actorID, nil
}

// TTL returns the configured validity window.
func (s *jwtService) TTL() time.Duration {
	return s.ttl
}
