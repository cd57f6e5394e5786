// Seeds the user table. With no arguments it upserts the household's fixed
// user list; extra names can be passed as arguments. Upserting an existing
// user changes nothing.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/ndelacroix/habitude/internal/repository"
	"github.com/ndelacroix/habitude/internal/service"
	"github.com/ndelacroix/habitude/pkg/cleanup"
	"github.com/ndelacroix/habitude/pkg/config"
	"github.com/ndelacroix/habitude/pkg/keylock"
)

var defaultUsers = []string{"Lucas", "Nicolas", "Louis"}

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
	usersRepo := repository.NewUsersRepo(&dbCfg)
	users := service.NewUserService(usersRepo, repository.NewDailyLogsRepo(&dbCfg), keylock.New())

	names := defaultUsers
	if len(os.Args) > 1 {
		names = os.Args[1:]
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	for _, name := range names {
		user, err := users.Upsert(ctx, &service.UpsertUserRequest{Name: name})
		if err != nil {
			log.Fatal("seeding user " + name + " error: " + err.Error())
		}
		log.Printf("User %s ready (level %d)", user.Name, user.Level)
	}
	log.Println("Users seeded!")
}
