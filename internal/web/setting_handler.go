package web

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mlefebvre/repopulse/internal/domain"
	"github.com/mlefebvre/repopulse/internal/repository"
)

type settingHandler struct {
	settings repository.SettingRepo
	logger   *log.Logger
}

func newSettingHandler(deps Deps) *settingHandler {
	return &settingHandler{settings: deps.Settings, logger: deps.Logger}
}

func (h *settingHandler) register(r fiber.Router) {
	r.Get("/settings", h.list)
	r.Put("/settings/:key", h.put)
	r.Delete("/settings/:key", h.delete)
}

type settingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Encrypted bool      `json:"encrypted"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// list returns all settings with encrypted values masked.
func (h *settingHandler) list(c *fiber.Ctx) error {
	settings, err := h.settings.List(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	out := make([]settingResponse, 0, len(settings))
	for _, s := range settings {
		masked := s.Masked()
		out = append(out, settingResponse{
			Key:       masked.Key,
			Value:     masked.Value,
			Encrypted: masked.Encrypted,
			UpdatedAt: masked.UpdatedAt,
		})
	}
	return c.JSON(out)
}

type putSettingRequest struct {
	Value     string `json:"value"`
	Encrypted bool   `json:"encrypted"`
}

// put stores a setting. A value equal to the mask placeholder is ignored
// so that clients echoing a masked read back cannot clobber a real key.
func (h *settingHandler) put(c *fiber.Ctx) error {
	key := c.Params("key")
	var req putSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Value == domain.MaskedValue {
		return c.SendStatus(fiber.StatusNoContent)
	}

	s := &domain.Setting{
		Key:       key,
		Value:     req.Value,
		Encrypted: req.Encrypted,
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.settings.Upsert(c.UserContext(), s); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	masked := s.Masked()
	return c.JSON(settingResponse{
		Key:       masked.Key,
		Value:     masked.Value,
		Encrypted: masked.Encrypted,
		UpdatedAt: masked.UpdatedAt,
	})
}

func (h *settingHandler) delete(c *fiber.Ctx) error {
	if err := h.settings.Delete(c.UserContext(), c.Params("key")); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}
