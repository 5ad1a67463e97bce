package web

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mlefebvre/repopulse/internal/domain"
	"github.com/mlefebvre/repopulse/internal/report"
	"github.com/mlefebvre/repopulse/internal/repository"
)

type projectHandler struct {
	projects repository.ProjectRepo
	activity repository.ActivityRepo
	logger   *log.Logger
}

func newProjectHandler(deps Deps) *projectHandler {
	return &projectHandler{projects: deps.Projects, activity: deps.Activity, logger: deps.Logger}
}

func (h *projectHandler) register(r fiber.Router) {
	r.Get("/projects", h.list)
	r.Post("/projects", h.create)
	r.Get("/projects/:id", h.get)
	r.Put("/projects/:id", h.update)
	r.Delete("/projects/:id", h.delete)
	r.Get("/projects/:id/config", h.getConfig)
	r.Put("/projects/:id/config", h.putConfig)
}

type projectResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Owner        string     `json:"owner"`
	Repo         string     `json:"repo"`
	URL          string     `json:"url"`
	Description  string     `json:"description,omitempty"`
	IsActive     bool       `json:"isActive"`
	LastSyncAt   *time.Time `json:"lastSyncAt,omitempty"`
	ItemCount    int        `json:"itemCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (h *projectHandler) toResponse(c *fiber.Ctx, p *domain.Project) projectResponse {
	count, err := h.activity.CountByProject(c.UserContext(), p.ID)
	if err != nil {
		h.logger.Printf("counting activity for %s: %v", p.ID, err)
	}
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Owner:       p.Owner,
		Repo:        p.Repo,
		URL:         p.URL,
		Description: p.Description,
		IsActive:    p.IsActive,
		LastSyncAt:  p.LastSyncAt,
		ItemCount:   count,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *projectHandler) list(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active", false)
	projects, err := h.projects.List(c.UserContext(), activeOnly)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, h.toResponse(c, p))
	}
	return c.JSON(out)
}

type createProjectRequest struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (h *projectHandler) create(c *fiber.Ctx) error {
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	owner, repo, err := domain.ParseGitHubURL(req.URL)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		req.Name = repo
	}

	existing, err := h.projects.GetBySlug(c.UserContext(), owner, repo)
	if err == nil && existing != nil {
		return fiber.NewError(fiber.StatusConflict, "project already exists for "+owner+"/"+repo)
	}

	now := time.Now().UTC()
	p := &domain.Project{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Owner:       owner,
		Repo:        repo,
		URL:         req.URL,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := h.projects.Create(c.UserContext(), p); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(h.toResponse(c, p))
}

func (h *projectHandler) get(c *fiber.Ctx) error {
	p, err := h.fetch(c)
	if err != nil {
		return err
	}
	return c.JSON(h.toResponse(c, p))
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

func (h *projectHandler) update(c *fiber.Ctx) error {
	p, err := h.fetch(c)
	if err != nil {
		return err
	}

	var req updateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.UpdatedAt = time.Now().UTC()

	if err := p.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := h.projects.Update(c.UserContext(), p); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(h.toResponse(c, p))
}

func (h *projectHandler) delete(c *fiber.Ctx) error {
	p, err := h.fetch(c)
	if err != nil {
		return err
	}
	if err := h.projects.Delete(c.UserContext(), p.ID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// getConfig returns both the raw stored override and the effective
// configuration after merging over defaults.
func (h *projectHandler) getConfig(c *fiber.Ctx) error {
	p, err := h.fetch(c)
	if err != nil {
		return err
	}

	override := ""
	if p.ReportConfig != nil {
		override = *p.ReportConfig
	}
	effective, mergeErr := report.MergeConfig(override, report.DefaultConfig())
	if mergeErr != nil {
		h.logger.Printf("report config for %s is unparseable, serving defaults: %v", p.ID, mergeErr)
	}

	resp := fiber.Map{"effective": effective}
	if p.ReportConfig != nil {
		resp["override"] = json.RawMessage(*p.ReportConfig)
	}
	return c.JSON(resp)
}

// putConfig stores the request body as the project's report config
// override. The body must at least parse as a JSON object.
func (h *projectHandler) putConfig(c *fiber.Ctx) error {
	p, err := h.fetch(c)
	if err != nil {
		return err
	}

	body := c.Body()
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "report config must be a JSON object")
	}

	raw := string(body)
	p.ReportConfig = &raw
	p.UpdatedAt = time.Now().UTC()
	if err := h.projects.Update(c.UserContext(), p); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	effective, _ := report.MergeConfig(raw, report.DefaultConfig())
	return c.JSON(fiber.Map{"effective": effective, "override": json.RawMessage(raw)})
}

func (h *projectHandler) fetch(c *fiber.Ctx) (*domain.Project, error) {
	id := c.Params("id")
	p, err := h.projects.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "project not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return p, nil
}
