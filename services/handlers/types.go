package handlers

import (
	"github.com/guessworks/hangbot_api/dto"
)

type GameManagerInterface interface {
	CreateGame(channelID string, req *dto.CreateGameRequest) (*dto.GameResponse, error)
	GetGame(channelID string) (*dto.GameResponse, error)
	JoinGame(channelID string, req *dto.JoinGameRequest) (*dto.JoinGameResponse, error)
	StartGame(channelID string, req *dto.StartGameRequest) (*dto.GameResponse, error)
	MakeGuess(channelID string, req *dto.GuessRequest) (*dto.GuessResponse, error)
	EndGame(channelID string, req *dto.EndGameRequest) (*dto.GameResponse, error)

	GetShop() (*dto.ShopListResponse, error)
	PurchaseItem(req *dto.PurchaseRequest) (*dto.PurchaseResponse, error)
	EquipCosmetic(req *dto.EquipRequest) (*dto.PlayerProfileResponse, error)

	GetPlayerProfile(userID, username string) (*dto.PlayerProfileResponse, error)
	GetLeaderboard(period string, limit, minGames int) (*dto.LeaderboardResponse, error)

	ForceResetAll() (*dto.ResetWeeklyResponse, error)
	PurgeGames(req *dto.PurgeGamesRequest) (*dto.PurgeGamesResponse, error)
}
