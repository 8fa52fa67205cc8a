package controller

import (
	"classroom-ai-be/internal/dto"
	"classroom-ai-be/internal/pkg/serverutils"
	"classroom-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFeedbackController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type feedbackController struct {
	service service.IFeedbackService
}

func NewFeedbackController(service service.IFeedbackService) IFeedbackController {
	return &feedbackController{service: service}
}

func (c *feedbackController) RegisterRoutes(r fiber.Router) {
	r.Post("/generate_feedback", serverutils.JwtMiddleware, c.Generate)
	r.Get("/list_feedback/:course_id/:course_section_id", serverutils.JwtMiddleware, c.List)
}

// Generate accepts JSON or form bodies.
func (c *feedbackController) Generate(ctx *fiber.Ctx) error {
	user, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.Context(), user, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Feedback generated", res))
}

func (c *feedbackController) List(ctx *fiber.Ctx) error {
	user, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	courseId, _ := ctx.ParamsInt("course_id")
	sectionId, _ := ctx.ParamsInt("course_section_id")

	res, err := c.service.List(ctx.Context(), user, int64(courseId), int64(sectionId))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get feedback", res))
}
