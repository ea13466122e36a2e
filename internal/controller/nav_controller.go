package controller

import (
	"dhcp-admin-be/internal/pkg/serverutils"
	"dhcp-admin-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INavController interface {
	RegisterRoutes(r fiber.Router)
	Nav(ctx *fiber.Ctx) error
	Banner(ctx *fiber.Ctx) error
}

type navController struct {
	navService service.INavService
}

func NewNavController(navService service.INavService) INavController {
	return &navController{
		navService: navService,
	}
}

func (c *navController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/nav/v1")
	h.Get("", c.Nav)
	h.Get("banner", c.Banner)
}

func (c *navController) Nav(ctx *fiber.Ctx) error {
	res, err := c.navService.Nav(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show nav", res))
}

func (c *navController) Banner(ctx *fiber.Ctx) error {
	res, err := c.navService.Banner(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show banner", res))
}
