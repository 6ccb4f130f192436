// @title Logbook API
// @description API for the personal tracker app "Logbook"
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"log"

	"github.com/limbo/logbook/internal/api"
	"github.com/limbo/logbook/internal/repository"
	"github.com/limbo/logbook/internal/store"
	"github.com/limbo/logbook/pkg/cleanup"
	"github.com/limbo/logbook/pkg/config"
	jwtservice "github.com/limbo/logbook/pkg/jwt_service"
)

func init() {
	store.InitValidator()
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

	opts := []store.Option{}
	if path := cfg.GetStringOr("PROBLEMS_CSV", ""); path != "" {
		catalog, err := store.LoadCatalog(path)
		if err != nil {
			log.Fatal("loading problem catalog: " + err.Error())
		}
		opts = append(opts, store.WithCatalog(catalog))
	}

	logStore := store.NewStore(repository.NewSlotsRepo(&dbCfg), opts...)
	if err := logStore.LoadAll(context.Background()); err != nil {
		log.Fatal("loading stored state: " + err.Error())
	}

	serv := api.New(&api.Options{
		Store:         logStore,
		JwtService:    jwtservice.New(cfg.GetString("JWT_SECRET")),
		AccessKeyHash: cfg.GetString("ACCESS_KEY_HASH"),
	})
	err := serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
