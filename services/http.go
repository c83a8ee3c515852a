package services

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/guessworks/hangbot_api/middleware"
	"github.com/guessworks/hangbot_api/services/handlers"
	"github.com/guessworks/hangbot_api/shared"
)

type HttpService struct {
	context.DefaultService

	managerSvc    *GameManagerService
	monitoringSvc *MonitoringService
	rateLimitSvc  *middleware.RateLimitMiddleware

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.managerSvc = svc.Service(GAME_MANAGER_SVC).(*GameManagerService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	svc.rateLimitSvc = svc.Service(middleware.RATE_LIMIT_MIDDLEWARE_SVC).(*middleware.RateLimitMiddleware)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))
	app.Use(svc.rateLimitSvc.IPRateLimit())

	app.Get("/ping", svc.ping)

	gameHandler := handlers.NewGameHandler(svc.managerSvc)
	shopHandler := handlers.NewShopHandler(svc.managerSvc)
	leaderboardHandler := handlers.NewLeaderboardHandler(svc.managerSvc)
	adminHandler := handlers.NewAdminHandler(svc.managerSvc)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	games := v1.Group("/games/:channelId")
	games.Post("/", gameHandler.CreateGame)
	games.Get("/", gameHandler.GetGame)
	games.Post("/join", gameHandler.JoinGame)
	games.Post("/start", gameHandler.StartGame)
	games.Post("/guess", svc.rateLimitSvc.GuessRateLimit(), gameHandler.MakeGuess)
	games.Post("/end", gameHandler.EndGame)

	v1.Get("/shop", shopHandler.GetShop)
	v1.Post("/shop/purchase", svc.rateLimitSvc.PurchaseRateLimit(), shopHandler.PurchaseItem)
	v1.Post("/shop/equip", shopHandler.EquipCosmetic)
	v1.Get("/players/:userId", shopHandler.GetPlayerProfile)

	v1.Get("/leaderboard/weekly", leaderboardHandler.GetWeeklyLeaderboard)
	v1.Get("/leaderboard/lifetime", leaderboardHandler.GetLifetimeLeaderboard)
	v1.Get("/leaderboard/winrate", leaderboardHandler.GetWinRateLeaderboard)

	admin := v1.Group("/admin")
	admin.Post("/reset-weekly", adminHandler.ForceResetWeekly)
	admin.Post("/purge-games", adminHandler.PurgeGames)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

// handleError maps application errors to their HTTP shape; anything
// unrecognized becomes a 500 without leaking the underlying error.
func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c)
}
