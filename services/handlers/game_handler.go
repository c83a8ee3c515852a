package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/guessworks/hangbot_api/dto"
	"github.com/guessworks/hangbot_api/shared"
)

type GameHandler struct {
	managerSvc GameManagerInterface
}

func NewGameHandler(managerSvc GameManagerInterface) *GameHandler {
	return &GameHandler{
		managerSvc: managerSvc,
	}
}

// @Summary Create game
// @Description Open a new game session in a channel
// @Tags games
// @Accept json
// @Produce json
// @Param channelId path string true "Channel ID"
// @Param createRequest body dto.CreateGameRequest true "Word and starter"
// @Success 200 {object} shared.Response{data=dto.GameResponse}
// @Router /api/v1/games/{channelId} [post]
func (h *GameHandler) CreateGame(c *fiber.Ctx) error {
	channelID := c.Params("channelId")
	if channelID == "" {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Channel ID is required", nil)
	}

	var req dto.CreateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Invalid request", err.Error())
	}

	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	game, err := h.managerSvc.CreateGame(channelID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Game created", game)
}

// @Summary Get game
// @Description Get the channel's current game session
// @Tags games
// @Accept json
// @Produce json
// @Param channelId path string true "Channel ID"
// @Success 200 {object} shared.Response{data=dto.GameResponse}
// @Router /api/v1/games/{channelId} [get]
func (h *GameHandler) GetGame(c *fiber.Ctx) error {
	channelID := c.Params("channelId")
	if channelID == "" {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Channel ID is required", nil)
	}

	game, err := h.managerSvc.GetGame(channelID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", game)
}

// @Summary Join game
// @Description Join the channel's waiting game
// @Tags games
// @Accept json
// @Produce json
// @Param channelId path string true "Channel ID"
// @Param joinRequest body dto.JoinGameRequest true "Joining player"
// @Success 200 {object} shared.Response{data=dto.JoinGameResponse}
// @Router /api/v1/games/{channelId}/join [post]
func (h *GameHandler) JoinGame(c *fiber.Ctx) error {
	channelID := c.Params("channelId")
	if channelID == "" {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Channel ID is required", nil)
	}

	var req dto.JoinGameRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Invalid request", err.Error())
	}

	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	result, err := h.managerSvc.JoinGame(channelID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Joined game", result)
}

// @Summary Start game
// @Description Begin the guessing phase, starter only
// @Tags games
// @Accept json
// @Produce json
// @Param channelId path string true "Channel ID"
// @Param startRequest body dto.StartGameRequest true "Requesting user"
// @Success 200 {object} shared.Response{data=dto.GameResponse}
// @Router /api/v1/games/{channelId}/start [post]
func (h *GameHandler) StartGame(c *fiber.Ctx) error {
	channelID := c.Params("channelId")
	if channelID == "" {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Channel ID is required", nil)
	}

	var req dto.StartGameRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Invalid request", err.Error())
	}

	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	game, err := h.managerSvc.StartGame(channelID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Game started", game)
}

// @Summary Guess letter
// @Description Guess one letter in the channel's active game
// @Tags games
// @Accept json
// @Produce json
// @Param channelId path string true "Channel ID"
// @Param guessRequest body dto.GuessRequest true "Guessing player and letter"
// @Success 200 {object} shared.Response{data=dto.GuessResponse}
// @Router /api/v1/games/{channelId}/guess [post]
func (h *GameHandler) MakeGuess(c *fiber.Ctx) error {
	channelID := c.Params("channelId")
	if channelID == "" {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Channel ID is required", nil)
	}

	var req dto.GuessRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Invalid request", err.Error())
	}

	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	result, err := h.managerSvc.MakeGuess(channelID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary End game
// @Description Cancel the channel's game, starter only
// @Tags games
// @Accept json
// @Produce json
// @Param channelId path string true "Channel ID"
// @Param endRequest body dto.EndGameRequest true "Requesting user"
// @Success 200 {object} shared.Response{data=dto.GameResponse}
// @Router /api/v1/games/{channelId}/end [post]
func (h *GameHandler) EndGame(c *fiber.Ctx) error {
	channelID := c.Params("channelId")
	if channelID == "" {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Channel ID is required", nil)
	}

	var req dto.EndGameRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Invalid request", err.Error())
	}

	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	game, err := h.managerSvc.EndGame(channelID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Game ended", game)
}
