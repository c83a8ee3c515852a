package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/guessworks/hangbot_api/dto"
	"github.com/guessworks/hangbot_api/shared"
)

type AdminHandler struct {
	managerSvc GameManagerInterface
}

func NewAdminHandler(managerSvc GameManagerInterface) *AdminHandler {
	return &AdminHandler{
		managerSvc: managerSvc,
	}
}

// @Summary Force weekly reset (Admin)
// @Description Zero every player's weekly balance immediately
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.ResetWeeklyResponse}
// @Router /api/v1/admin/reset-weekly [post]
func (h *AdminHandler) ForceResetWeekly(c *fiber.Ctx) error {
	result, err := h.managerSvc.ForceResetAll()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Weekly balances reset", result)
}

// @Summary Purge finished games (Admin)
// @Description Delete finished game sessions older than the given age
// @Tags admin
// @Accept json
// @Produce json
// @Param purgeRequest body dto.PurgeGamesRequest false "Age threshold in hours (default 24)"
// @Success 200 {object} shared.Response{data=dto.PurgeGamesResponse}
// @Router /api/v1/admin/purge-games [post]
func (h *AdminHandler) PurgeGames(c *fiber.Ctx) error {
	var req dto.PurgeGamesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return shared.ResponseJSON(c, http.StatusBadRequest, "Invalid request", err.Error())
		}
	}

	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	result, err := h.managerSvc.PurgeGames(&req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Finished games purged", result)
}
