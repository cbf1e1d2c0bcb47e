// Package auth resolves the authenticated owner from a bearer token.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/logging"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

type ownerKey struct{}

// WithOwner attaches the authenticated owner to ctx.
func WithOwner(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext returns uuid.Nil when no owner was authenticated, which
// the services reject as unauthorized.
func OwnerFromContext(ctx context.Context) uuid.UUID {
	ownerID, _ := ctx.Value(ownerKey{}).(uuid.UUID)
	return ownerID
}

// Verifier validates HS256 tokens whose subject is the owner id.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses tokenString and returns its subject.
func (v *Verifier) Verify(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	ownerID, err := uuid.FromString(claims.Subject)
	if err != nil || ownerID.IsNil() {
		return uuid.Nil, ErrInvalidToken
	}
	return ownerID, nil
}

// IssueToken signs a token for ownerID valid for ttl.
func (v *Verifier) IssueToken(ownerID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   ownerID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(v.secret)
}

func bearerToken(header string) (string, error) {
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(tokenString) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(tokenString), nil
}

// Middleware rejects requests without a valid bearer token and stores the
// owner on the request context. Operations listed in public skip the check.
func Middleware(api huma.API, verifier *Verifier, public ...string) func(huma.Context, func(huma.Context)) {
	skip := make(map[string]struct{}, len(public))
	for _, id := range public {
		skip[id] = struct{}{}
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		if op := ctx.Operation(); op != nil {
			if _, ok := skip[op.OperationID]; ok {
				next(ctx)
				return
			}
		}

		tokenString, err := bearerToken(ctx.Header("Authorization"))
		if err == nil {
			var ownerID uuid.UUID
			ownerID, err = verifier.Verify(tokenString)
			if err == nil {
				logging.GetLogData(ctx.Context()).AddData("ownerID", ownerID.String())
				next(huma.WithContext(ctx, WithOwner(ctx.Context(), ownerID)))
				return
			}
		}

		_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error(), err)
	}
}
