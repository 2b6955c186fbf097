package controller

import (
	"net/url"

	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const oauthStateCookie = "oauth_state"

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service   service.IOAuthService
	clientURL string
	logger    logger.ILogger
}

func NewOAuthController(service service.IOAuthService, clientURL string, log logger.ILogger) IOAuthController {
	return &oauthController{service: service, clientURL: clientURL, logger: log}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Get("/:provider", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")

	loginURL, state, err := c.service.GetLoginURL(provider)
	if err != nil {
		return err
	}
	ctx.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		MaxAge:   600,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	c.logger.Debug("OAuth", "Redirecting to provider", map[string]interface{}{"provider": provider})
	return ctx.Redirect(loginURL, fiber.StatusTemporaryRedirect)
}

// Callback finishes the code exchange and hands the access token to the
// client app through the redirect URL.
func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing code")
	}
	if state := ctx.Cookies(oauthStateCookie); state != "" && state != ctx.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid state")
	}
	ctx.ClearCookie(oauthStateCookie)

	res, err := c.service.HandleCallback(ctx.UserContext(), provider, code)
	if err != nil {
		c.logger.Warn("OAuth", "Callback failed", map[string]interface{}{"provider": provider, "error": err.Error()})
		return err
	}

	c.logger.Info("OAuth", "User authenticated", map[string]interface{}{"provider": provider, "user_id": res.User.Id})
	return ctx.Redirect(c.clientURL+"/app?token="+url.QueryEscape(res.AccessToken), fiber.StatusTemporaryRedirect)
}
