package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/placementcell/placement-service/internal/helper/utils"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
	"gorm.io/gorm"
)

// respondServiceError maps the service error taxonomy onto HTTP. The
// structured payloads (failing criteria, missing documents) ride in the
// detail field so clients can route the user accordingly.
func respondServiceError(ctx *fiber.Ctx, err error) error {
	var eligErr apperrors.EligibilityError
	if errors.As(err, &eligErr) {
		return utils.ResponseErrorDetail(ctx, fiber.StatusForbidden,
			"You are not eligible for this job.", eligErr.Failing)
	}

	var profileErr apperrors.IncompleteProfileError
	if errors.As(err, &profileErr) {
		return utils.ResponseErrorDetail(ctx, fiber.StatusBadRequest,
			"Please complete your profile before applying.", profileErr.Missing)
	}

	var rosterErr apperrors.RosterParseError
	if errors.As(err, &rosterErr) {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, rosterErr.Error())
	}

	var validationErr apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, validationErr.Error())
	}

	switch {
	case errors.Is(err, apperrors.ErrDuplicateApplication):
		return utils.ResponseError(ctx, fiber.StatusConflict, "You have already applied to this job.")
	case errors.Is(err, apperrors.ErrDeadlinePassed):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Deadline has passed. You can no longer apply to this job.")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, apperrors.ErrMailAlreadySent):
		return utils.ResponseError(ctx, fiber.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrRequestNotPending):
		return utils.ResponseError(ctx, fiber.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrJobNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrApplicationNotFound),
		errors.Is(err, apperrors.ErrRequestNotFound),
		errors.Is(err, apperrors.ErrRoundNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return utils.ResponseError(ctx, fiber.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrRosterEmpty):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotificationFailed):
		return utils.ResponseError(ctx, fiber.StatusBadGateway, err.Error())
	}

	return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
}

func paramUint(ctx *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(ctx.Params(name), 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + name)
	}
	return uint(v), nil
}

