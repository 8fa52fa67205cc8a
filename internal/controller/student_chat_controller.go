package controller

import (
	"classroom-ai-be/internal/dto"
	"classroom-ai-be/internal/pkg/serverutils"
	"classroom-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStudentChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type studentChatController struct {
	service service.IStudentChatService
}

func NewStudentChatController(service service.IStudentChatService) IStudentChatController {
	return &studentChatController{service: service}
}

func (c *studentChatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/student_chat")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/:course_id/:course_section", c.Chat)
}

func (c *studentChatController) Chat(ctx *fiber.Ctx) error {
	user, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	// non-numeric ids fall through as 0 and are rejected by the service
	courseId, _ := ctx.ParamsInt("course_id")
	sectionId, _ := ctx.ParamsInt("course_section")

	var req dto.StudentChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	res, err := c.service.Chat(ctx.Context(), user, int64(courseId), int64(sectionId), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}
