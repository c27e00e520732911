package previewsrv

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ctxKey is the type of keys this package stores in a request context.
type ctxKey int

const (
	ctxLoggedIn ctxKey = iota
	ctxOwnerID
)

// authHandler is HTTP middleware that extracts and validates a bearer JWT,
// then stores whether the caller is logged in and as whom in the request
// context.
type authHandler struct {
	secret        []byte
	ownerID       uuid.UUID
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func requireAuth(secret []byte, ownerID uuid.UUID, unauthedDelay time.Duration, next http.Handler) *authHandler {
	return &authHandler{secret: secret, ownerID: ownerID, required: true, unauthedDelay: unauthedDelay, next: next}
}

func (ah *authHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tok, err := getBearerToken(req)
	if err != nil {
		if ah.required {
			time.Sleep(ah.unauthedDelay)
			unauthorized("", err.Error()).writeResponse(w)
			return
		}
		ah.next.ServeHTTP(w, withAuthContext(req, false, uuid.Nil))
		return
	}

	id, err := validateToken(tok, ah.secret)
	if err != nil {
		if ah.required {
			time.Sleep(ah.unauthedDelay)
			unauthorized("", err.Error()).writeResponse(w)
			return
		}
		ah.next.ServeHTTP(w, withAuthContext(req, false, uuid.Nil))
		return
	}

	ah.next.ServeHTTP(w, withAuthContext(req, true, id))
}

func withAuthContext(req *http.Request, loggedIn bool, ownerID uuid.UUID) *http.Request {
	ctx := req.Context()
	ctx = context.WithValue(ctx, ctxLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, ctxOwnerID, ownerID)
	return req.WithContext(ctx)
}

func ownerFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ctxOwnerID).(uuid.UUID)
	return id
}

func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(strings.TrimSpace(parts[0])) != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

func validateToken(tok string, secret []byte) (uuid.UUID, error) {
	var subj string
	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		s, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}
		subj = s
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("expando-previewsrv"), jwt.WithLeeway(time.Minute))
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(subj)
	if err != nil {
		return uuid.Nil, fmt.Errorf("cannot parse subject UUID: %w", err)
	}
	return id, nil
}

func generateToken(ownerID uuid.UUID, secret []byte) (string, error) {
	claims := &jwt.MapClaims{
		"iss": "expando-previewsrv",
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": ownerID.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}
