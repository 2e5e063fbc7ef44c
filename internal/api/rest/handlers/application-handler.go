package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/placementcell/placement-service/internal/helper/utils"
	"github.com/placementcell/placement-service/internal/services"
)

type ApplicationHandler struct {
	apps services.ApplicationService
	jobs services.JobService
}

func NewApplicationHandler(apps services.ApplicationService, jobs services.JobService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, jobs: jobs}
}

// SetupPublicRoutes mounts the token flow. The mailed token is the
// credential here, so no session is required.
func (h *ApplicationHandler) SetupPublicRoutes(api fiber.Router, limiter fiber.Handler) {
	tokens := api.Group("/applications/token")
	tokens.Get("/:token", h.ValidateToken)
	tokens.Post("/:token", limiter, h.ApplyWithToken)
}

func (h *ApplicationHandler) SetupStudentRoutes(student fiber.Router, limiter fiber.Handler) {
	student.Post("/jobs/:jobID/apply", limiter, h.Apply)
	student.Get("/applications", h.ListMine)
}

func (h *ApplicationHandler) Apply(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	jobID, err := paramUint(ctx, "jobID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	app, err := h.apps.Apply(userID, jobID)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, app)
}

func (h *ApplicationHandler) ApplyWithToken(ctx *fiber.Ctx) error {
	app, err := h.apps.ApplyWithToken(ctx.Params("token"))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, app)
}

// ValidateToken lets the apply page check a mailed link before showing
// the form.
func (h *ApplicationHandler) ValidateToken(ctx *fiber.Ctx) error {
	token, err := h.jobs.ValidateJobToken(ctx.Params("token"))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"job_id":     token.JobID,
		"student_id": token.StudentID,
		"expires_at": token.ExpiresAt,
	})
}

func (h *ApplicationHandler) ListMine(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	apps, err := h.apps.ListForStudent(userID)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, apps)
}
