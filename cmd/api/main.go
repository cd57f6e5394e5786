// @title Habitude API
// @description API for the habit-tracker app "Habitude"
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/ndelacroix/habitude/internal/api"
	"github.com/ndelacroix/habitude/internal/repository"
	"github.com/ndelacroix/habitude/internal/service"
	"github.com/ndelacroix/habitude/pkg/cleanup"
	"github.com/ndelacroix/habitude/pkg/config"
	"github.com/ndelacroix/habitude/pkg/keylock"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	usersRepo := repository.NewUsersRepo(&dbCfg)
	logsRepo := repository.NewDailyLogsRepo(&dbCfg)
	userLocks := keylock.New()
	serv := api.New(&api.ServicesList{
		UserService:     service.NewUserService(usersRepo, logsRepo, userLocks),
		HabitLogService: service.NewHabitLogService(usersRepo, logsRepo, userLocks),
	})
	err := serv.Run(cfg.GetStringOrDefault("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
