package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/placementcell/placement-service/internal/helper/utils"
	"github.com/placementcell/placement-service/internal/services"
)

type RoundHandler struct {
	svc services.RoundService
}

func NewRoundHandler(svc services.RoundService) *RoundHandler {
	return &RoundHandler{svc: svc}
}

func (h *RoundHandler) SetupAdminRoutes(admin fiber.Router) {
	// =========================
	// ROUNDS (admin)
	// =========================
	rounds := admin.Group("/jobs/:jobID/rounds")

	rounds.Get("/", h.ListRounds)
	rounds.Post("/:roundType", h.CloseRound)
	rounds.Post("/:roundType/notify", h.NotifySelected)
}

// CloseRound takes the round's result sheet and resolves the round in
// one shot: roster selected, pending applicants rejected and mailed.
func (h *RoundHandler) CloseRound(ctx *fiber.Ctx) error {
	jobID, err := paramUint(ctx, "jobID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	data, filename, err := readFormFile(ctx, "file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.CloseRound(jobID, ctx.Params("roundType"), data, filename)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *RoundHandler) NotifySelected(ctx *fiber.Ctx) error {
	jobID, err := paramUint(ctx, "jobID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.NotifySelected(jobID, ctx.Params("roundType"))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *RoundHandler) ListRounds(ctx *fiber.Ctx) error {
	jobID, err := paramUint(ctx, "jobID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	rounds, err := h.svc.RoundsForJob(jobID)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, rounds)
}
