package web

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mlefebvre/repopulse/internal/llm"
)

type modelHandler struct {
	resolver *llm.CredentialResolver
	http     *http.Client
	logger   *log.Logger
}

func newModelHandler(deps Deps) *modelHandler {
	return &modelHandler{
		resolver: deps.Resolver,
		http:     &http.Client{Timeout: 15 * time.Second},
		logger:   deps.Logger,
	}
}

func (h *modelHandler) register(r fiber.Router) {
	r.Get("/models/openrouter", h.listOpenRouter)
}

// listOpenRouter proxies OpenRouter's model catalog so the dashboard can
// offer a model picker without exposing the API key to the browser.
func (h *modelHandler) listOpenRouter(c *fiber.Ctx) error {
	models, err := llm.ListOpenRouterModels(c.UserContext(), h.resolver, h.http)
	if err != nil {
		if errors.Is(err, llm.ErrCredentialMissing) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		h.logger.Printf("listing openrouter models: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "could not list models")
	}
	return c.JSON(models)
}
