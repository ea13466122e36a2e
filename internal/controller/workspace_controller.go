package controller

import (
	"dhcp-admin-be/internal/dto"
	"dhcp-admin-be/internal/pkg/logger"
	"dhcp-admin-be/internal/pkg/serverutils"
	"dhcp-admin-be/internal/service"
	internalWS "dhcp-admin-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetView(ctx *fiber.Ctx) error
	ActivateEndpoint(ctx *fiber.Ctx) error
	SelectRecord(ctx *fiber.Ctx) error
	NewRecord(ctx *fiber.Ctx) error
	CloseForm(ctx *fiber.Ctx) error
	EditField(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	GetDraft(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type workspaceController struct {
	workspaceService service.IWorkspaceService
	hub              *internalWS.Hub
	logger           logger.ILogger
}

func NewWorkspaceController(workspaceService service.IWorkspaceService, hub *internalWS.Hub, log logger.ILogger) IWorkspaceController {
	return &workspaceController{
		workspaceService: workspaceService,
		hub:              hub,
		logger:           log,
	}
}

func (c *workspaceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workspace/v1")
	// Session creation and the WS handshake carry no session yet; they
	// must sit above the middleware.
	h.Post("session", c.CreateSession)
	h.Get("ws", c.ServeWs)

	h.Use(serverutils.SessionMiddleware)
	h.Get("view", c.GetView)
	h.Get("draft", c.GetDraft)
	h.Post("endpoint", c.ActivateEndpoint)
	h.Post("select", c.SelectRecord)
	h.Post("new", c.NewRecord)
	h.Post("close", c.CloseForm)
	h.Patch("field", c.EditField)
	h.Post("save", c.Save)
	h.Post("delete", c.Remove)
	h.Post("reset", c.Reset)
}

func (c *workspaceController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.workspaceService.CreateSession(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *workspaceController) GetView(ctx *fiber.Ctx) error {
	workspaceID, err := c.workspaceID(ctx)
	if err != nil {
		return err
	}

	res, err := c.workspaceService.View(ctx.Context(), workspaceID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show workspace", res))
}

func (c *workspaceController) ActivateEndpoint(ctx *fiber.Ctx) error {
	workspaceID, err := c.workspaceID(ctx)
	if err != nil {
		return err
	}

	var req dto.ActivateEndpointRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.workspaceService.ActivateEndpoint(ctx.Context(), workspaceID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success activate endpoint", res))
}

func (c *workspaceController) SelectRecord(ctx *fiber.Ctx) error {
	workspaceID, err := c.workspaceID(ctx)
	if err != nil {
		return err
	}

	var req dto.SelectRecordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.workspaceService.SelectRecord(ctx.Context(), workspaceID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success select record", res))
}

func (c *workspaceController) NewRecord(ctx *fiber.Ctx) error {
	workspaceID, err := c.workspaceID(ctx)
	if err != nil {
		return err
	}

	var req dto.NewRecordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.workspaceService.NewRecord(ctx.Context(), workspaceID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success open draft", res))
}

func (c *workspaceController) CloseForm(ctx *fiber.Ctx) error {
	workspaceID, err := c.workspaceID(ctx)
	if err != nil {
		return err
	}

	var req dto.CloseFormRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.workspaceService.CloseForm(ctx.Context(), workspaceID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success close form", res))
}

func (c *workspaceController) EditField(ctx *fiber.Ctx) error {
	workspaceID, err := c.workspaceID(ctx)
	if err != nil {
		return err
	}

	var req dto.EditFieldRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.workspaceService.EditField(ctx.Context(), workspaceID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success edit field", res))
}

func (c *workspaceController) Save(ctx *fiber.Ctx) error {
	workspaceID, err := c.workspaceID(ctx)
	if err != nil {
		return err
	}

	res, err := c.workspaceService.Save(ctx.Context(), workspaceID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success save record", res))
}

func (c *workspaceController) Remove(ctx *fiber.Ctx) error {
	workspaceID, err := c.workspaceID(ctx)
	if err != nil {
		return err
	}

	var req dto.DeleteRecordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.workspaceService.Remove(ctx.Context(), workspaceID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete record", res))
}

func (c *workspaceController) Reset(ctx *fiber.Ctx) error {
	workspaceID, err := c.workspaceID(ctx)
	if err != nil {
		return err
	}

	res, err := c.workspaceService.Reset(ctx.Context(), workspaceID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success reset form", res))
}

func (c *workspaceController) GetDraft(ctx *fiber.Ctx) error {
	workspaceID, err := c.workspaceID(ctx)
	if err != nil {
		return err
	}

	res, err := c.workspaceService.Draft(ctx.Context(), workspaceID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show draft", res))
}

// ServeWs upgrades the connection and attaches it to the workspace's
// live mirror feed. Browsers cannot set headers on a WS handshake, so
// the token arrives as a query param.
func (c *workspaceController) ServeWs(ctx *fiber.Ctx) error {
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	workspaceID, err := serverutils.ParseSessionToken(tokenStr)
	if err != nil {
		c.logger.Warn("WorkspaceController", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("WorkspaceController", "Starting WebSocket session", map[string]interface{}{"workspace_id": workspaceID})
			internalWS.ServeWs(c.hub, conn, workspaceID)
			c.logger.Info("WorkspaceController", "WebSocket session ended", map[string]interface{}{"workspace_id": workspaceID})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}

func (c *workspaceController) workspaceID(ctx *fiber.Ctx) (string, error) {
	workspaceID, ok := ctx.Locals("workspace_id").(string)
	if !ok || workspaceID == "" {
		return "", fiber.ErrUnauthorized
	}
	return workspaceID, nil
}
