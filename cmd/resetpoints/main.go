// Resets every user's currency and jokers to zero. One-off maintenance,
// mirrors the household's "fresh season" ritual.
package main

import (
	"context"
	"log"
	"time"

	"github.com/ndelacroix/habitude/internal/repository"
	"github.com/ndelacroix/habitude/internal/service"
	"github.com/ndelacroix/habitude/pkg/cleanup"
	"github.com/ndelacroix/habitude/pkg/config"
	"github.com/ndelacroix/habitude/pkg/keylock"
)

func main() {
	defer cleanup.CleanUp()
	service.InitValidator()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	users := service.NewUserService(repository.NewUsersRepo(&dbCfg), repository.NewDailyLogsRepo(&dbCfg), keylock.New())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	if err := users.ResetAllBalances(ctx); err != nil {
		log.Fatal("resetting balances error: " + err.Error())
	}
	log.Println("Points and Jokers reset to 0")
}
