package controller

import (
	"classroom-ai-be/internal/dto"
	"classroom-ai-be/internal/pkg/serverutils"
	"classroom-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAiChatController interface {
	RegisterRoutes(r fiber.Router)
	StartConversation(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Deploy(ctx *fiber.Ctx) error
}

type aiChatController struct {
	service service.IAiChatService
}

func NewAiChatController(service service.IAiChatService) IAiChatController {
	return &aiChatController{service: service}
}

func (c *aiChatController) RegisterRoutes(r fiber.Router) {
	r.Get("/start_conversation", serverutils.JwtMiddleware, c.StartConversation)
	r.Post("/chat/:uuid", serverutils.JwtMiddleware, c.Chat)
	r.Get("/conversation/:uuid", serverutils.JwtMiddleware, c.History)
	r.Delete("/conversation/:uuid", serverutils.JwtMiddleware, c.Delete)
	r.Get("/list_conversations", serverutils.JwtMiddleware, c.List)
	r.Get("/deploy_student_llm/:uuid", serverutils.JwtMiddleware, c.Deploy)
}

func (c *aiChatController) StartConversation(ctx *fiber.Ctx) error {
	user, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.StartConversation(ctx.Context(), user)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Conversation started", res))
}

func (c *aiChatController) Chat(ctx *fiber.Ctx) error {
	user, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.Context(), user, ctx.Params("uuid"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *aiChatController) History(ctx *fiber.Ctx) error {
	user, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.History(ctx.Context(), user, ctx.Params("uuid"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversation", res))
}

func (c *aiChatController) Delete(ctx *fiber.Ctx) error {
	user, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), user, ctx.Params("uuid")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Conversation deleted successfully.", nil))
}

func (c *aiChatController) List(ctx *fiber.Ctx) error {
	user, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.Context(), user)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list conversations", res))
}

func (c *aiChatController) Deploy(ctx *fiber.Ctx) error {
	user, err := serverutils.CurrentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Deploy(ctx.Context(), user, ctx.Params("uuid"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Conversation deployed", res))
}
