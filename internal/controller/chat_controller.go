package controller

import (
	"cognihub-be/internal/dto"
	"cognihub-be/internal/pkg/serverutils"
	"cognihub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Patch(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Append(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Fork(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	Summarize(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chats")
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Patch(":id", c.Patch)
	h.Delete(":id", c.Delete)
	h.Post(":id/messages", c.Append)
	h.Post(":id/clear", c.Clear)
	h.Post(":id/fork", c.Fork)
	h.Get(":id/export", c.Export)
	h.Post(":id/summarize", c.Summarize)
}

func parseChatID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid chat id")
	}
	return id, nil
}

func (c *chatController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create chat", res))
}

func (c *chatController) GetAll(ctx *fiber.Ctx) error {
	var req dto.ListChatsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	res, err := c.chatService.GetAll(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list chats", res))
}

func (c *chatController) Show(ctx *fiber.Ctx) error {
	id, err := parseChatID(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show chat", res))
}

func (c *chatController) Patch(ctx *fiber.Ctx) error {
	id, err := parseChatID(ctx)
	if err != nil {
		return err
	}

	var req dto.PatchChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Patch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update chat", res))
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
	id, err := parseChatID(ctx)
	if err != nil {
		return err
	}

	if err := c.chatService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete chat", nil))
}

func (c *chatController) Append(ctx *fiber.Ctx) error {
	id, err := parseChatID(ctx)
	if err != nil {
		return err
	}

	var req dto.AppendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.ChatId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Append(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success append message", res))
}

func (c *chatController) Clear(ctx *fiber.Ctx) error {
	id, err := parseChatID(ctx)
	if err != nil {
		return err
	}

	if err := c.chatService.Clear(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear chat", nil))
}

func (c *chatController) Fork(ctx *fiber.Ctx) error {
	id, err := parseChatID(ctx)
	if err != nil {
		return err
	}

	var req dto.ForkChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.ChatId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Fork(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fork chat", res))
}

func (c *chatController) Export(ctx *fiber.Ctx) error {
	id, err := parseChatID(ctx)
	if err != nil {
		return err
	}

	format := ctx.Query("format", "json")
	export, markdown, err := c.chatService.Export(ctx.Context(), id, format)
	if err != nil {
		return err
	}

	if format == "markdown" {
		ctx.Type("md")
		return ctx.SendString(markdown)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success export chat", export))
}

func (c *chatController) Summarize(ctx *fiber.Ctx) error {
	id, err := parseChatID(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.Summarize(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success summarize chat", res))
}
