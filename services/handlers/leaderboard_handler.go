package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/guessworks/hangbot_api/shared"
)

type LeaderboardHandler struct {
	managerSvc GameManagerInterface
}

func NewLeaderboardHandler(managerSvc GameManagerInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		managerSvc: managerSvc,
	}
}

func parseLimit(c *fiber.Ctx) int {
	limit := 10
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	return limit
}

func parseMinGames(c *fiber.Ctx) int {
	if m := c.Query("min_games"); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 0
}

// @Summary Get Weekly Leaderboard
// @Description Get weekly points rankings
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Limit results (default 10)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard/weekly [get]
func (h *LeaderboardHandler) GetWeeklyLeaderboard(c *fiber.Ctx) error {
	leaderboard, err := h.managerSvc.GetLeaderboard("weekly", parseLimit(c), 0)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}

// @Summary Get Lifetime Leaderboard
// @Description Get all-time points rankings
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Limit results (default 10)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard/lifetime [get]
func (h *LeaderboardHandler) GetLifetimeLeaderboard(c *fiber.Ctx) error {
	leaderboard, err := h.managerSvc.GetLeaderboard("lifetime", parseLimit(c), 0)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}

// @Summary Get Win Rate Leaderboard
// @Description Get win rate rankings for players with enough games
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Limit results (default 10)"
// @Param min_games query int false "Minimum finished games to rank (default 5)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard/winrate [get]
func (h *LeaderboardHandler) GetWinRateLeaderboard(c *fiber.Ctx) error {
	leaderboard, err := h.managerSvc.GetLeaderboard("winrate", parseLimit(c), parseMinGames(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}
