package web

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mlefebvre/repopulse/internal/domain"
	"github.com/mlefebvre/repopulse/internal/export"
	"github.com/mlefebvre/repopulse/internal/llm"
	"github.com/mlefebvre/repopulse/internal/report"
	"github.com/mlefebvre/repopulse/internal/repository"
)

type reportHandler struct {
	projects  repository.ProjectRepo
	activity  repository.ActivityRepo
	reports   repository.ReportRepo
	generator *report.Generator
	logger    *log.Logger
}

func newReportHandler(deps Deps) *reportHandler {
	return &reportHandler{
		projects:  deps.Projects,
		activity:  deps.Activity,
		reports:   deps.Reports,
		generator: deps.Generator,
		logger:    deps.Logger,
	}
}

func (h *reportHandler) register(r fiber.Router) {
	r.Get("/reports", h.listAll)
	r.Get("/reports/:id", h.get)
	r.Get("/projects/:id/reports", h.listByProject)
	r.Post("/projects/:id/reports", h.generate)
	r.Get("/projects/:id/export", h.export)
}

type reportResponse struct {
	ID                string                `json:"id"`
	ProjectID         string                `json:"projectId"`
	Title             string                `json:"title"`
	Content           string                `json:"content,omitempty"`
	Summary           string                `json:"summary"`
	Highlights        []string              `json:"highlights"`
	Metrics           *domain.ReportMetrics `json:"metrics,omitempty"`
	ReportType        domain.ReportType     `json:"reportType"`
	DetailLevel       domain.DetailLevel    `json:"detailLevel"`
	ReportDate        time.Time             `json:"reportDate"`
	IssuesCount       int                   `json:"issuesCount"`
	DiscussionsCount  int                   `json:"discussionsCount"`
	PullRequestsCount int                   `json:"pullRequestsCount"`
	CreatedAt         time.Time             `json:"createdAt"`
}

// toReportResponse converts a report; content is omitted in listings to
// keep payloads small.
func toReportResponse(r *domain.Report, includeContent bool) reportResponse {
	resp := reportResponse{
		ID:                r.ID,
		ProjectID:         r.ProjectID,
		Title:             r.Title,
		Summary:           r.Summary,
		Highlights:        r.Highlights,
		Metrics:           r.Metrics,
		ReportType:        r.ReportType,
		DetailLevel:       r.DetailLevel,
		ReportDate:        r.ReportDate,
		IssuesCount:       r.IssuesCount,
		DiscussionsCount:  r.DiscussionsCount,
		PullRequestsCount: r.PullRequestsCount,
		CreatedAt:         r.CreatedAt,
	}
	if includeContent {
		resp.Content = r.Content
	}
	return resp
}

func (h *reportHandler) listAll(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	reports, err := h.reports.ListAll(c.UserContext(), limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	out := make([]reportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, toReportResponse(r, false))
	}
	return c.JSON(out)
}

func (h *reportHandler) get(c *fiber.Ctx) error {
	r, err := h.reports.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "report not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(toReportResponse(r, true))
}

func (h *reportHandler) listByProject(c *fiber.Ctx) error {
	p, err := h.fetchProject(c)
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", 20)
	reports, err := h.reports.ListByProject(c.UserContext(), p.ID, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	out := make([]reportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, toReportResponse(r, false))
	}
	return c.JSON(out)
}

type generateRequest struct {
	Type        string `json:"type"`
	DetailLevel string `json:"detailLevel"`
}

func (h *reportHandler) generate(c *fiber.Ctx) error {
	p, err := h.fetchProject(c)
	if err != nil {
		return err
	}

	req := generateRequest{Type: string(domain.ReportDaily), DetailLevel: string(domain.DetailDetailed)}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}
	if !domain.ValidReportTypes[req.Type] {
		return fiber.NewError(fiber.StatusBadRequest, "invalid report type: "+req.Type)
	}
	if !domain.ValidDetailLevels[req.DetailLevel] {
		return fiber.NewError(fiber.StatusBadRequest, "invalid detail level: "+req.DetailLevel)
	}

	generated, err := h.generator.Generate(c.UserContext(), p,
		domain.ReportType(req.Type), domain.DetailLevel(req.DetailLevel))
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(toReportResponse(generated, true))
	case errors.Is(err, report.ErrNoActivity):
		return fiber.NewError(fiber.StatusNotFound, "no activity in the requested window")
	case errors.Is(err, llm.ErrCredentialMissing):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, llm.ErrProviderUnimplemented):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, llm.ErrTimeout):
		return fiber.NewError(fiber.StatusGatewayTimeout, err.Error())
	default:
		h.logger.Printf("generating report for %s: %v", p.Name, err)
		return fiber.NewError(fiber.StatusBadGateway, "report generation failed")
	}
}

// export streams the project's reports and recent activity as CSV or XLSX.
func (h *reportHandler) export(c *fiber.Ctx) error {
	p, err := h.fetchProject(c)
	if err != nil {
		return err
	}

	reports, err := h.reports.ListByProject(c.UserContext(), p.ID, 100)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	items, err := h.activity.ListRecent(c.UserContext(), p.ID, 500)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	bundle := export.Bundle{Project: p, Reports: reports, Items: items}

	var buf bytes.Buffer
	format := c.Query("format", "csv")
	switch format {
	case "csv":
		if err := export.WriteReportsCSV(&buf, bundle); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, attachment(p, "csv"))
	case "xlsx":
		if err := export.WriteXLSX(&buf, bundle); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, attachment(p, "xlsx"))
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unsupported format: "+format)
	}
	return c.Send(buf.Bytes())
}

func attachment(p *domain.Project, ext string) string {
	return fmt.Sprintf("attachment; filename=%s_%s.%s",
		p.Repo, time.Now().UTC().Format("2006-01-02"), ext)
}

func (h *reportHandler) fetchProject(c *fiber.Ctx) (*domain.Project, error) {
	p, err := h.projects.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "project not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return p, nil
}
