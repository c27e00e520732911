// Package previewsrv implements a small HTTP service for iterating on
// expando format strings against sample data and saving the results as named
// presets, the Go-native analogue of a "try out your format string" tool.
// There is no equivalent in the neomutt original this engine is modeled on;
// it exists purely as host-integration surface, built with go-chi routing,
// JWT bearer auth, and the dao.Store abstraction in package dao.
package previewsrv

import (
	"strings"
	"time"

	"github.com/dekarrin/expando"
	"github.com/dekarrin/expando/previewsrv/dao"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service holds everything an instance of the preview server needs to
// handle requests.
type Service struct {
	db     dao.Store
	defs   *expando.DefinitionTable
	cb     *expando.CallbackTable
	sample interface{}

	jwtSecret     []byte
	adminID       uuid.UUID
	adminPassHash []byte

	unauthedDelay time.Duration
}

// Config supplies everything needed to construct a Service.
type Config struct {
	Store  dao.Store
	Defs   *expando.DefinitionTable
	CB     *expando.CallbackTable
	Sample interface{}

	JWTSecret     []byte
	AdminID       uuid.UUID
	AdminPassword string

	// UnauthedDelay slows down failed-auth responses to deprioritize them;
	// defaults to 0 (no delay) if unset.
	UnauthedDelay time.Duration
}

// New constructs a Service from cfg, hashing the admin password with bcrypt.
func New(cfg Config) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, newError("could not hash admin password", err)
	}

	return &Service{
		db:            cfg.Store,
		defs:          cfg.Defs,
		cb:            cfg.CB,
		sample:        cfg.Sample,
		jwtSecret:     cfg.JWTSecret,
		adminID:       cfg.AdminID,
		adminPassHash: hash,
		unauthedDelay: cfg.UnauthedDelay,
	}, nil
}

// login checks a password against the configured admin account and, if
// correct, returns a signed bearer token.
func (s *Service) login(password string) (string, error) {
	err := bcrypt.CompareHashAndPassword(s.adminPassHash, []byte(password))
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return "", ErrBadCredentials
	} else if err != nil {
		return "", newError("could not verify password", err)
	}

	return generateToken(s.adminID, s.jwtSecret)
}

// renderPreview compiles and renders format against the service's sample
// data, returning the rendered text or the expando.ParseError from Parse,
// unwrapped.
func (s *Service) renderPreview(format string, maxCols int) (string, error) {
	e, err := expando.Parse(format, s.defs)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	e.RenderMax(&sb, s.cb, s.sample, 0, maxCols)
	return sb.String(), nil
}
