package utils

import "github.com/gofiber/fiber/v2"

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// ResponseErrorDetail attaches a structured payload (failing criteria,
// missing documents) next to the message.
func ResponseErrorDetail(ctx *fiber.Ctx, status int, msg string, detail interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error":  msg,
		"detail": detail,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}
