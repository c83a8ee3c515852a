// services/manager.go
package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/guessworks/hangbot_api/dto"
	"github.com/guessworks/hangbot_api/model"
	"github.com/guessworks/hangbot_api/shared"
)

// GameManagerService is the facade the transport layer talks to. It fans
// out to the game, ledger, shop and scheduler services and translates
// storage models into response DTOs, so handlers never see a model type.
type GameManagerService struct {
	context.DefaultService

	gameSvc      *GameService
	ledgerSvc    *LedgerService
	shopSvc      *ShopService
	schedulerSvc *WeeklyResetService
}

const GAME_MANAGER_SVC = "game_manager_svc"

func (svc GameManagerService) Id() string {
	return GAME_MANAGER_SVC
}

func (svc *GameManagerService) Start() error {
	svc.gameSvc = svc.Service(GAME_SVC).(*GameService)
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	svc.shopSvc = svc.Service(SHOP_SVC).(*ShopService)
	svc.schedulerSvc = svc.Service(SCHEDULER_SVC).(*WeeklyResetService)
	return nil
}

// ==================== GAMES ====================

func (svc *GameManagerService) CreateGame(channelID string, req *dto.CreateGameRequest) (*dto.GameResponse, error) {
	game, err := svc.gameSvc.CreateGame(channelID, req.Word, req.UserID, req.Username)
	if err != nil {
		return nil, err
	}
	resp := toGameResponse(game)
	return &resp, nil
}

func (svc *GameManagerService) GetGame(channelID string) (*dto.GameResponse, error) {
	game, err := svc.gameSvc.FindGame(channelID)
	if err != nil {
		return nil, err
	}
	resp := toGameResponse(game)
	return &resp, nil
}

func (svc *GameManagerService) JoinGame(channelID string, req *dto.JoinGameRequest) (*dto.JoinGameResponse, error) {
	game, count, err := svc.gameSvc.JoinGame(channelID, req.UserID, req.Username)
	if err != nil {
		return nil, err
	}

	return &dto.JoinGameResponse{
		Game:        toGameResponse(game),
		PlayerCount: count,
	}, nil
}

func (svc *GameManagerService) StartGame(channelID string, req *dto.StartGameRequest) (*dto.GameResponse, error) {
	game, err := svc.gameSvc.StartGame(channelID, req.UserID)
	if err != nil {
		return nil, err
	}
	resp := toGameResponse(game)
	return &resp, nil
}

func (svc *GameManagerService) MakeGuess(channelID string, req *dto.GuessRequest) (*dto.GuessResponse, error) {
	outcome, err := svc.gameSvc.MakeGuess(channelID, req.UserID, req.Username, req.Letter)
	if err != nil {
		return nil, err
	}

	game := outcome.Game
	return &dto.GuessResponse{
		Game:         toGameResponse(game),
		Letter:       outcome.Letter,
		IsCorrect:    outcome.IsCorrect,
		MistakeCount: game.MistakeCount,
		MaxMistakes:  game.MaxMistakes,
		State:        game.State,
		Display:      MaskWord(game.Word, game.Guessed),
		PointsPer:    outcome.PointsPerPlayer,
	}, nil
}

func (svc *GameManagerService) EndGame(channelID string, req *dto.EndGameRequest) (*dto.GameResponse, error) {
	game, err := svc.gameSvc.ForceEnd(channelID, req.UserID)
	if err != nil {
		return nil, err
	}
	resp := toGameResponse(game)
	return &resp, nil
}

// ==================== SHOP ====================

func (svc *GameManagerService) GetShop() (*dto.ShopListResponse, error) {
	items, err := svc.shopSvc.ListAvailable()
	if err != nil {
		return nil, err
	}

	resp := &dto.ShopListResponse{
		Items: make([]dto.ShopItemResponse, 0, len(items)),
		Total: len(items),
	}
	for i := range items {
		resp.Items = append(resp.Items, toShopItemResponse(&items[i]))
	}
	return resp, nil
}

func (svc *GameManagerService) PurchaseItem(req *dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	item, player, err := svc.shopSvc.Purchase(req.UserID, req.Username, req.Item)
	if err != nil {
		return nil, err
	}

	return &dto.PurchaseResponse{
		Item:            toShopItemResponse(item),
		RemainingWeekly: player.WeeklyPoints,
	}, nil
}

func (svc *GameManagerService) EquipCosmetic(req *dto.EquipRequest) (*dto.PlayerProfileResponse, error) {
	player, err := svc.ledgerSvc.SetActiveCosmetic(req.UserID, req.Category, req.ItemID)
	if err != nil {
		return nil, err
	}
	return svc.toProfileResponse(player)
}

// ==================== PLAYERS ====================

func (svc *GameManagerService) GetPlayerProfile(userID, username string) (*dto.PlayerProfileResponse, error) {
	player, err := svc.ledgerSvc.GetProfile(userID, username)
	if err != nil {
		return nil, err
	}
	return svc.toProfileResponse(player)
}

func (svc *GameManagerService) GetLeaderboard(period string, limit, minGames int) (*dto.LeaderboardResponse, error) {
	rows, err := svc.ledgerSvc.Leaderboard(period, limit, minGames)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardResponse{
		Period:  period,
		Entries: make([]dto.LeaderboardEntry, 0, len(rows)),
	}
	for i, row := range rows {
		entry := dto.LeaderboardEntry{
			UserID:   row.Player.ID,
			Username: row.Player.Username,
			Rank:     i + 1,
			Wins:     row.Player.GamesWon,
			Played:   row.Player.GamesPlayed,
		}
		switch period {
		case PeriodWinRate:
			entry.WinRate = row.Score
		default:
			entry.Points = int(row.Score)
		}
		resp.Entries = append(resp.Entries, entry)
	}
	return resp, nil
}

// ==================== ADMIN ====================

func (svc *GameManagerService) ForceResetAll() (*dto.ResetWeeklyResponse, error) {
	count, err := svc.schedulerSvc.ForceResetAll()
	if err != nil {
		return nil, err
	}
	return &dto.ResetWeeklyResponse{ResetCount: count}, nil
}

func (svc *GameManagerService) PurgeGames(req *dto.PurgeGamesRequest) (*dto.PurgeGamesResponse, error) {
	hours := req.OlderThanHours
	if hours <= 0 {
		hours = 24
	}

	count, err := svc.gameSvc.PurgeFinished(time.Duration(hours) * time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.PurgeGamesResponse{PurgedCount: count}, nil
}

// ==================== MAPPING ====================

func toGameResponse(game *model.GameSession) dto.GameResponse {
	players := make([]dto.GamePlayerResponse, 0, len(game.Players))
	for _, p := range game.Players {
		players = append(players, dto.GamePlayerResponse{
			UserID:   p.UserID,
			Username: p.Username,
			JoinedAt: p.JoinedAt,
		})
	}

	resp := dto.GameResponse{
		ID:           game.ID,
		ChannelID:    game.ChannelID,
		State:        game.State,
		StarterID:    game.StarterID,
		Players:      players,
		Guessed:      game.Guessed,
		MistakeCount: game.MistakeCount,
		MaxMistakes:  game.MaxMistakes,
		Display:      MaskWord(game.Word, game.Guessed),
		JoinDeadline: game.JoinDeadline,
		CreatedAt:    game.CreatedAt,
		StartedAt:    game.StartedAt,
		EndedAt:      game.EndedAt,
	}

	// The word stays hidden until the game is over.
	if shared.IsTerminalState(game.State) {
		resp.Word = game.Word
	}

	return resp
}

func toShopItemResponse(item *model.ShopItem) dto.ShopItemResponse {
	return dto.ShopItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Cost:        item.Cost,
		Category:    item.Category,
		Value:       item.Value,
		Emoji:       item.Emoji,
		Color:       item.Color,
		Limited:     item.Limited,
		Purchases:   item.Purchases,
	}
}

func (svc *GameManagerService) toProfileResponse(player *model.Player) (*dto.PlayerProfileResponse, error) {
	owned := make([]dto.OwnedItemResponse, 0, len(player.OwnedItems))
	for _, o := range player.OwnedItems {
		entry := dto.OwnedItemResponse{
			ItemID:      o.ItemID,
			PurchasedAt: o.PurchasedAt,
		}
		if item, err := svc.ledgerSvc.backend.FindShopItem(o.ItemID); err == nil && item != nil {
			entry.Name = item.Name
			entry.Category = item.Category
		}
		owned = append(owned, entry)
	}

	accuracy := 0.0
	if player.LettersGuessed > 0 {
		accuracy = float64(player.CorrectGuesses) / float64(player.LettersGuessed)
	}

	return &dto.PlayerProfileResponse{
		UserID:          player.ID,
		Username:        player.Username,
		WeeklyPoints:    player.WeeklyPoints,
		LifetimePoints:  player.LifetimePoints,
		GamesPlayed:     player.GamesPlayed,
		GamesWon:        player.GamesWon,
		LettersGuessed:  player.LettersGuessed,
		CorrectGuesses:  player.CorrectGuesses,
		Accuracy:        accuracy,
		OwnedItems:      owned,
		ActivePrefix:    player.ActivePrefix,
		ActiveTheme:     player.ActiveTheme,
		NeedsReset:      svc.schedulerSvc.NeedsReset(player.LastWeeklyReset),
		LastWeeklyReset: player.LastWeeklyReset,
		CreatedAt:       player.CreatedAt,
	}, nil
}
