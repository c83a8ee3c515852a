package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/guessworks/hangbot_api/dto"
	"github.com/guessworks/hangbot_api/shared"
)

type ShopHandler struct {
	managerSvc GameManagerInterface
}

func NewShopHandler(managerSvc GameManagerInterface) *ShopHandler {
	return &ShopHandler{
		managerSvc: managerSvc,
	}
}

// @Summary List shop
// @Description List purchasable cosmetic items, cheapest first
// @Tags shop
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.ShopListResponse}
// @Router /api/v1/shop [get]
func (h *ShopHandler) GetShop(c *fiber.Ctx) error {
	shop, err := h.managerSvc.GetShop()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", shop)
}

// @Summary Purchase item
// @Description Buy a shop item with weekly points
// @Tags shop
// @Accept json
// @Produce json
// @Param purchaseRequest body dto.PurchaseRequest true "Buyer and item"
// @Success 200 {object} shared.Response{data=dto.PurchaseResponse}
// @Router /api/v1/shop/purchase [post]
func (h *ShopHandler) PurchaseItem(c *fiber.Ctx) error {
	var req dto.PurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Invalid request", err.Error())
	}

	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	result, err := h.managerSvc.PurchaseItem(&req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Purchase complete", result)
}

// @Summary Equip cosmetic
// @Description Equip an owned prefix or theme
// @Tags shop
// @Accept json
// @Produce json
// @Param equipRequest body dto.EquipRequest true "Item to equip"
// @Success 200 {object} shared.Response{data=dto.PlayerProfileResponse}
// @Router /api/v1/shop/equip [post]
func (h *ShopHandler) EquipCosmetic(c *fiber.Ctx) error {
	var req dto.EquipRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Invalid request", err.Error())
	}

	if err := dto.GetValidator().Struct(&req); err != nil {
		return shared.ResponseJSON(c, http.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	profile, err := h.managerSvc.EquipCosmetic(&req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Item equipped", profile)
}

// @Summary Get player profile
// @Description Get a player's points, stats and owned items
// @Tags players
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param username query string false "Display name to record"
// @Success 200 {object} shared.Response{data=dto.PlayerProfileResponse}
// @Router /api/v1/players/{userId} [get]
func (h *ShopHandler) GetPlayerProfile(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return shared.ResponseJSON(c, http.StatusBadRequest, "User ID is required", nil)
	}

	profile, err := h.managerSvc.GetPlayerProfile(userID, c.Query("username"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", profile)
}
