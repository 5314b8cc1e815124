package handlers

import (
	"strings"

	"maidhub/internal/app"
	jobController "maidhub/internal/controllers/jobs"
	"maidhub/internal/handlers/middleware"
	"maidhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	Handler
	jobController jobController.JobControllerInterface
}

func NewJobHandler(app app.App, router fiber.Router) *JobHandler {
	return &JobHandler{
		jobController: app.Controllers.Job,
		Handler:       newHandler(app, router, "job_handler"),
	}
}

func (h *JobHandler) Register() {
	jobs := h.router.Group("/jobs", h.middleware.RequireAuth())
	jobs.Get("", h.listJobs)
	jobs.Post("", h.createJob)
	jobs.Get("/:id", h.getJob)
	jobs.Patch("/:id", h.updateJob)
	jobs.Post("/:id/complete", h.completeJob)
	jobs.Post("/:id/cancel", h.cancelJob)
	jobs.Get("/:id/history", h.getHistory)
	jobs.Post("/:id/ratings", h.rateJob)
}

func (h *JobHandler) listJobs(c *fiber.Ctx) error {
	filter := jobController.ListJobsFilter{Mine: c.QueryBool("mine")}
	if status := c.Query("status"); status != "" {
		jobStatus := models.JobStatus(strings.ToUpper(status))
		filter.Status = &jobStatus
	}

	jobs, err := h.jobController.List(c.UserContext(), middleware.GetUser(c), filter)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"jobs": jobs})
}

func (h *JobHandler) createJob(c *fiber.Ctx) error {
	var req jobController.CreateJobRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	job, err := h.jobController.Create(c.UserContext(), middleware.GetUser(c), &req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"job": job})
}

func (h *JobHandler) getJob(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	job, err := h.jobController.Get(c.UserContext(), middleware.GetUser(c), jobID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"job": job})
}

func (h *JobHandler) updateJob(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req jobController.UpdateJobRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	job, err := h.jobController.Update(c.UserContext(), middleware.GetUser(c), jobID, &req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"job": job})
}

func (h *JobHandler) completeJob(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	job, err := h.jobController.Complete(c.UserContext(), middleware.GetUser(c), jobID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"job": job})
}

func (h *JobHandler) cancelJob(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	job, err := h.jobController.Cancel(c.UserContext(), middleware.GetUser(c), jobID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"job": job})
}

func (h *JobHandler) getHistory(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	history, err := h.jobController.History(c.UserContext(), middleware.GetUser(c), jobID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"history": history})
}

func (h *JobHandler) rateJob(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req jobController.RateRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	rating, err := h.jobController.Rate(c.UserContext(), middleware.GetUser(c), jobID, &req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"rating": rating})
}
