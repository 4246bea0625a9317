// Package systeminfo serves the system info store over http: a json api
// below /api/system-info and an html overview below /admin/system-info.
package systeminfo

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/config"
	store "github.com/GoPowerDNS-Admin/systeminfo/internal/db/controller/systeminfo"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/session"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/web/handler"
)

const (
	// Path is the route of the store below the api and admin groups.
	Path = "/system-info"

	// TemplateName is the name of the overview template.
	TemplateName = "admin/system-info"

	keyParam     = "key"
	defaultQuery = "default"

	defaultTimeout = 10 * time.Second
)

// Service is the system info handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Entry is the json representation of a stored key.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SetRequest is the body of PUT /api/system-info/:key.
type SetRequest struct {
	Value *string `json:"value" validate:"required"`
}

// SetResponse reports whether PUT wrote anything.
type SetResponse struct {
	Key     string `json:"key"`
	Changed bool   `json:"changed"`
}

// Init registers the api and admin routes.
func (s *Service) Init(api, admin fiber.Router, cfg *config.Config, db *gorm.DB) {
	if api == nil || admin == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	api.Get(Path, s.List)
	api.Get(Path+"/:"+keyParam, s.Get)
	api.Put(Path+"/:"+keyParam, s.Put)
	api.Delete(Path+"/:"+keyParam, s.Delete)

	admin.Get(Path, s.Page)
}

// List returns every entry ordered by key.
func (s *Service) List(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), defaultTimeout)
	defer cancel()

	sess, err := s.session()
	if err != nil {
		return err
	}
	defer closeSession(sess)

	entries, err := store.List(ctx, sess)
	if err != nil {
		return s.fail(err, "failed to list system info")
	}

	out := make([]Entry, 0, len(entries))
	for i := range entries {
		out = append(out, Entry{Key: entries[i].Key, Value: entries[i].StringValue()})
	}

	return c.JSON(out)
}

// Get returns the value of one key. With ?default= an absent key answers
// with the default, without it an absent key is a 404.
func (s *Service) Get(c fiber.Ctx) error {
	key, err := keyFromPath(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context(), defaultTimeout)
	defer cancel()

	sess, err := s.session()
	if err != nil {
		return err
	}
	defer closeSession(sess)

	if c.Request().URI().QueryArgs().Has(defaultQuery) {
		value, getErr := store.Get(ctx, sess, key, c.Query(defaultQuery))
		if getErr != nil {
			return s.fail(getErr, "failed to get system info")
		}

		return c.JSON(Entry{Key: key, Value: value})
	}

	value, found, err := store.Lookup(ctx, sess, key)
	if err != nil {
		return s.fail(err, "failed to get system info")
	}

	if !found {
		return fiber.NewError(fiber.StatusNotFound, "system info key not found")
	}

	return c.JSON(Entry{Key: key, Value: value})
}

// Put stores the value from the request body under key.
func (s *Service) Put(c fiber.Ctx) error {
	key, err := keyFromPath(c)
	if err != nil {
		return err
	}

	var req SetRequest
	if err = c.Bind().JSON(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json body")
	}

	if err = s.validator.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "field value is required")
	}

	ctx, cancel := context.WithTimeout(c.Context(), defaultTimeout)
	defer cancel()

	sess, err := s.session()
	if err != nil {
		return err
	}
	defer closeSession(sess)

	changed, err := store.Set(ctx, sess, key, *req.Value)
	if err != nil {
		return s.fail(err, "failed to set system info")
	}

	log.Info().Str("key", key).Bool("changed", changed).Str("IP", c.IP()).Msg("system info set")

	return c.JSON(SetResponse{Key: key, Changed: changed})
}

// Delete removes key. Removing an absent key succeeds as well.
func (s *Service) Delete(c fiber.Ctx) error {
	key, err := keyFromPath(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context(), defaultTimeout)
	defer cancel()

	sess, err := s.session()
	if err != nil {
		return err
	}
	defer closeSession(sess)

	if err = store.Delete(ctx, sess, key, nil); err != nil {
		return s.fail(err, "failed to delete system info")
	}

	log.Info().Str("key", key).Str("IP", c.IP()).Msg("system info deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// session opens the per request session.
func (s *Service) session() (*session.Session, error) {
	sess, err := session.New(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to open session")

		return nil, fiber.ErrInternalServerError
	}

	return sess, nil
}

func closeSession(sess *session.Session) {
	if err := sess.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close session")
	}
}

// fail maps store errors to http errors. Validation errors are the callers fault,
// a missing table is reported as 503 and everything else is hidden behind a 500.
func (s *Service) fail(err error, msg string) error {
	switch {
	case errors.Is(err, store.ErrKeyEmpty), errors.Is(err, store.ErrKeyTooLong):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrRelationMissing):
		log.Warn().Err(err).Msg(msg)

		return fiber.NewError(fiber.StatusServiceUnavailable, "system info table is not provisioned")
	case errors.Is(err, context.DeadlineExceeded):
		log.Error().Err(err).Msg(msg)

		return fiber.ErrGatewayTimeout
	default:
		log.Error().Err(err).Msg(msg)

		return fiber.ErrInternalServerError
	}
}

func keyFromPath(c fiber.Ctx) (string, error) {
	key, err := url.PathUnescape(c.Params(keyParam))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid key encoding")
	}

	return key, nil
}
