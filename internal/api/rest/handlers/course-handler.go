package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/placementcell/placement-service/internal/helper/utils"
	"github.com/placementcell/placement-service/internal/services"
)

type CourseHandler struct {
	svc services.CourseService
}

func NewCourseHandler(svc services.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// Courses are listed publicly so the registration form can offer them.
func (h *CourseHandler) SetupPublicRoutes(api fiber.Router) {
	api.Get("/courses", h.ListCourses)
}

func (h *CourseHandler) SetupAdminRoutes(admin fiber.Router) {
	admin.Post("/courses", h.CreateCourse)
}

func (h *CourseHandler) CreateCourse(ctx *fiber.Ctx) error {
	var requestBody struct {
		Name     string   `json:"name"`
		Branches []string `json:"branches"`
	}
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	course, err := h.svc.CreateCourse(requestBody.Name, requestBody.Branches)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, course)
}

func (h *CourseHandler) ListCourses(ctx *fiber.Ctx) error {
	courses, err := h.svc.ListCourses()
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, courses)
}
