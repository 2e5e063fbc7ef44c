package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/placementcell/placement-service/internal/dto"
	"github.com/placementcell/placement-service/internal/helper"
	"github.com/placementcell/placement-service/internal/helper/utils"
	"github.com/placementcell/placement-service/internal/services"
	pkgutils "github.com/placementcell/placement-service/pkg/utils"
)

// maxUploadBytes caps multipart uploads (documents and rosters) before
// they reach a parser or the uploader.
const maxUploadBytes = 10 << 20

type StudentHandler struct {
	svc   services.StudentService
	users services.UserService
}

func NewStudentHandler(svc services.StudentService, users services.UserService) *StudentHandler {
	return &StudentHandler{svc: svc, users: users}
}

func (h *StudentHandler) SetupRoutes(student fiber.Router) {
	// =========================
	// STUDENT (authenticated)
	// =========================
	student.Get("/profile", h.GetProfile)
	student.Put("/profile", h.UpdateProfile)
	student.Post("/documents/:kind", h.UploadDocument)
	student.Get("/resume-data", h.GetResumeData)
	student.Put("/resume-data", h.SaveResumeData)
	student.Get("/jobs", h.JobBoard)
}

func (h *StudentHandler) SetupAdminRoutes(admin fiber.Router) {
	// =========================
	// STUDENT RECORDS (admin)
	// =========================
	students := admin.Group("/students")

	students.Get("/", h.ListStudents)
	students.Post("/", h.CreateStudent)
	students.Post("/import", h.ImportStudents)
	students.Put("/import", h.UpdateStudentsFromSheet)
	students.Put("/:studentID", h.AdminUpdateStudent)
	students.Delete("/", h.BulkDeleteStudents)
}

func currentUserID(ctx *fiber.Ctx) (uint, error) {
	userID, ok := ctx.Locals("userID").(uint)
	if !ok || userID == 0 {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return userID, nil
}

func (h *StudentHandler) GetProfile(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	student, err := h.svc.GetProfile(userID)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, student)
}

func (h *StudentHandler) UpdateProfile(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	var requestBody dto.UpdateStudentProfile
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	student, err := h.svc.UpdateProfile(userID, requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, student)
}

func (h *StudentHandler) UploadDocument(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	data, filename, err := readFormFile(ctx, "file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	link, err := h.svc.UploadDocument(ctx.Context(), userID, ctx.Params("kind"), filename, data)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"link": link})
}

func (h *StudentHandler) GetResumeData(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	data, err := h.svc.GetResumeData(userID)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, data)
}

func (h *StudentHandler) SaveResumeData(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	var data map[string]interface{}
	if err := ctx.BodyParser(&data); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if err := h.svc.SaveResumeData(userID, data); err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Resume data saved")
}

func (h *StudentHandler) JobBoard(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	board, err := h.svc.JobBoard(userID)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, board)
}

func (h *StudentHandler) ListStudents(ctx *fiber.Ctx) error {
	students, err := h.svc.ListStudents()
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, students)
}

// CreateStudent onboards one student with the same payload and checks
// as self-registration.
func (h *StudentHandler) CreateStudent(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if err := helper.ValidateStruct(requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, helper.FormatValidationErrors(err))
	}

	if err := h.users.Register(requestBody); err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, "Student created")
}

func (h *StudentHandler) ImportStudents(ctx *fiber.Ctx) error {
	data, _, err := readFormFile(ctx, "file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.ImportFromExcel(data)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, resp)
}

func (h *StudentHandler) UpdateStudentsFromSheet(ctx *fiber.Ctx) error {
	data, _, err := readFormFile(ctx, "file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.UpdateFromExcel(data)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *StudentHandler) AdminUpdateStudent(ctx *fiber.Ctx) error {
	studentID, err := paramUint(ctx, "studentID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	var requestBody dto.AdminStudentUpdate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if err := helper.ValidateStruct(requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, helper.FormatValidationErrors(err))
	}

	student, err := h.svc.AdminUpdate(studentID, requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, student)
}

func (h *StudentHandler) BulkDeleteStudents(ctx *fiber.Ctx) error {
	var requestBody struct {
		StudentIDs []uint `json:"student_ids"`
	}
	if err := ctx.BodyParser(&requestBody); err != nil || len(requestBody.StudentIDs) == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "student_ids is required")
	}

	deleted, err := h.svc.BulkDelete(requestBody.StudentIDs)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"deleted": deleted})
}

// readFormFile pulls one multipart file out of the request, size-capped.
func readFormFile(ctx *fiber.Ctx, field string) ([]byte, string, error) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "missing file")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := pkgutils.ReadAllLimit(f, maxUploadBytes)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Filename, nil
}
