package web

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mlefebvre/repopulse/internal/repository"
	"github.com/mlefebvre/repopulse/internal/sync"
)

type syncHandler struct {
	syncer     *sync.Syncer
	projects   repository.ProjectRepo
	cronSecret string
	logger     *log.Logger
}

func newSyncHandler(deps Deps) *syncHandler {
	return &syncHandler{
		syncer:     deps.Syncer,
		projects:   deps.Projects,
		cronSecret: deps.CronSecret,
		logger:     deps.Logger,
	}
}

func (h *syncHandler) register(r fiber.Router) {
	r.Post("/sync", h.trigger)
	r.Post("/projects/:id/sync", h.syncProject)
}

// trigger runs a full sync across active projects. When a cron secret is
// configured the caller must present it as a bearer token.
func (h *syncHandler) trigger(c *fiber.Ctx) error {
	if h.cronSecret != "" {
		auth := c.Get(fiber.HeaderAuthorization)
		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != h.cronSecret {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or missing sync token")
		}
	}

	result, err := h.syncer.SyncAll(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(result)
}

// syncProject syncs a single project on demand. Unlike the batch trigger
// it is a user-facing endpoint and is not gated by the cron secret.
func (h *syncHandler) syncProject(c *fiber.Ctx) error {
	p, err := h.projects.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "project not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	res := h.syncer.SyncProject(c.UserContext(), p)
	if res.Err != nil {
		h.logger.Printf("syncing project %s: %v", p.Name, res.Err)
		return fiber.NewError(fiber.StatusBadGateway, "sync failed")
	}
	return c.JSON(res)
}
