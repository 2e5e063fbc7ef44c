package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/placementcell/placement-service/internal/dto"
	"github.com/placementcell/placement-service/internal/helper"
	"github.com/placementcell/placement-service/internal/helper/utils"
	"github.com/placementcell/placement-service/internal/services"
)

type UserHandler struct {
	svc services.UserService
}

func NewUserHandler(svc services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) SetupRoutes(api fiber.Router) {
	// =========================
	// USER (public)
	// =========================
	user := api.Group("/user")

	user.Post("/register", h.Register)
	user.Post("/login", h.Login)
	user.Post("/logout", h.Logout)
}

func (h *UserHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if err := helper.ValidateStruct(requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, helper.FormatValidationErrors(err))
	}

	if err := h.svc.Register(requestBody); err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, "User registered successfully")
}

func (h *UserHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}
	if err := helper.ValidateStruct(requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, helper.FormatValidationErrors(err))
	}

	user, token, err := h.svc.Login(requestBody.Email, requestBody.Password)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Invalid email or password")
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (h *UserHandler) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Logged out")
}
