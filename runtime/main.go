package main

import (
	"github.com/guessworks/hangbot_api/middleware"
	"github.com/guessworks/hangbot_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.StorageService{},
		&services.RedisService{},
		&services.MonitoringService{},
		&middleware.RateLimitMiddleware{},

		&services.LedgerService{},
		&services.GameService{},
		&services.ShopService{},
		&services.WeeklyResetService{},
		&services.GameManagerService{},
		&services.BackupService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
