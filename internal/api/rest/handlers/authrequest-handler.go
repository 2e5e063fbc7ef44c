package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/placementcell/placement-service/internal/dto"
	"github.com/placementcell/placement-service/internal/helper"
	"github.com/placementcell/placement-service/internal/helper/utils"
	"github.com/placementcell/placement-service/internal/services"
)

type AuthRequestHandler struct {
	svc      services.AuthRequestService
	students services.StudentService
}

func NewAuthRequestHandler(svc services.AuthRequestService, students services.StudentService) *AuthRequestHandler {
	return &AuthRequestHandler{svc: svc, students: students}
}

func (h *AuthRequestHandler) SetupStudentRoutes(student fiber.Router) {
	student.Post("/auth-requests", h.Submit)
}

func (h *AuthRequestHandler) SetupAdminRoutes(admin fiber.Router) {
	// =========================
	// AUTH REQUESTS (admin)
	// =========================
	requests := admin.Group("/auth-requests")

	requests.Get("/", h.ListAll)
	requests.Post("/:requestID/approve", h.Approve)
	requests.Post("/:requestID/reject", h.Reject)
	requests.Delete("/:requestID", h.Delete)
}

// Submit is multipart: the correction fields plus an optional proof
// document that goes to the uploader first.
func (h *AuthRequestHandler) Submit(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	requestBody := dto.AuthRequestSubmit{
		Field:    ctx.FormValue("field"),
		NewValue: ctx.FormValue("new_value"),
	}
	if err := helper.ValidateStruct(requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, helper.FormatValidationErrors(err))
	}

	proofLink := ""
	if _, err := ctx.FormFile("proof"); err == nil {
		data, filename, err := readFormFile(ctx, "proof")
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
		}
		proofLink, err = h.students.UploadDocument(ctx.Context(), userID, services.DocumentProof, filename, data)
		if err != nil {
			return respondServiceError(ctx, err)
		}
	}

	request, err := h.svc.Submit(userID, requestBody, proofLink)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, request)
}

func (h *AuthRequestHandler) ListAll(ctx *fiber.Ctx) error {
	requests, err := h.svc.ListAll()
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, requests)
}

func (h *AuthRequestHandler) Approve(ctx *fiber.Ctx) error {
	requestID, err := paramUint(ctx, "requestID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.svc.Approve(requestID); err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Request approved")
}

func (h *AuthRequestHandler) Reject(ctx *fiber.Ctx) error {
	requestID, err := paramUint(ctx, "requestID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	var requestBody dto.AuthRequestReject
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if err := h.svc.Reject(requestID, requestBody.Feedback); err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Request rejected")
}

func (h *AuthRequestHandler) Delete(ctx *fiber.Ctx) error {
	requestID, err := paramUint(ctx, "requestID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.svc.Delete(requestID); err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Request deleted")
}
