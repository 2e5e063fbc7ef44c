package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/placementcell/placement-service/internal/dto"
	"github.com/placementcell/placement-service/internal/helper"
	"github.com/placementcell/placement-service/internal/helper/utils"
	"github.com/placementcell/placement-service/internal/services"
)

type JobHandler struct {
	svc services.JobService
}

func NewJobHandler(svc services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

func (h *JobHandler) SetupAdminRoutes(admin fiber.Router) {
	// =========================
	// JOBS (admin)
	// =========================
	jobs := admin.Group("/jobs")

	jobs.Post("/", h.CreateJob)
	jobs.Post("/import", h.ImportJobs)
	jobs.Get("/", h.ListJobs)
	jobs.Put("/:jobID", h.UpdateJob)
	jobs.Delete("/:jobID", h.DeleteJob)

	jobs.Post("/:jobID/logo", h.UploadLogo)
	jobs.Post("/:jobID/remind", h.RemindNonApplicants)
	jobs.Get("/:jobID/applicants", h.GetApplicants)
	jobs.Post("/:jobID/applicants/:studentID/:action", h.OverrideApplicant)
}

func (h *JobHandler) CreateJob(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	var requestBody dto.JobCreateRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if err := helper.ValidateStruct(requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, helper.FormatValidationErrors(err))
	}

	resp, err := h.svc.CreateJob(userID, requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, resp)
}

// ImportJobs bulk-creates postings from an uploaded sheet. Bad rows are
// skipped and counted, not fatal.
func (h *JobHandler) ImportJobs(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	data, _, err := readFormFile(ctx, "file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.ImportJobsFromExcel(userID, data)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, resp)
}

func (h *JobHandler) ListJobs(ctx *fiber.Ctx) error {
	jobs, err := h.svc.ListJobs()
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, jobs)
}

func (h *JobHandler) UpdateJob(ctx *fiber.Ctx) error {
	jobID, err := paramUint(ctx, "jobID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	var requestBody dto.JobUpdateRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if err := helper.ValidateStruct(requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, helper.FormatValidationErrors(err))
	}

	job, err := h.svc.UpdateJob(jobID, requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, job)
}

func (h *JobHandler) DeleteJob(ctx *fiber.Ctx) error {
	jobID, err := paramUint(ctx, "jobID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.svc.DeleteJob(jobID); err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Job deleted")
}

func (h *JobHandler) UploadLogo(ctx *fiber.Ctx) error {
	jobID, err := paramUint(ctx, "jobID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	data, filename, err := readFormFile(ctx, "file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	link, err := h.svc.UploadLogo(ctx.Context(), jobID, filename, data)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"logo": link})
}

func (h *JobHandler) GetApplicants(ctx *fiber.Ctx) error {
	jobID, err := paramUint(ctx, "jobID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.GetJobApplicants(jobID)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *JobHandler) OverrideApplicant(ctx *fiber.Ctx) error {
	jobID, err := paramUint(ctx, "jobID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	studentID, err := paramUint(ctx, "studentID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.svc.OverrideApplicantStatus(jobID, studentID, ctx.Params("action")); err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Applicant status updated")
}

// RemindNonApplicants re-mails eligible students who have not applied
// yet.
func (h *JobHandler) RemindNonApplicants(ctx *fiber.Ctx) error {
	jobID, err := paramUint(ctx, "jobID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	sent, err := h.svc.RemindNonApplicants(jobID)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"reminded": sent})
}
