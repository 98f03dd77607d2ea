package main

import (
	"gochat/internal/config"
	"gochat/internal/logger"
	"gochat/internal/mongo"
	"gochat/internal/mysql"
	"gochat/internal/routing"
	"gochat/pkg/hub"
	"gochat/pkg/presence"

	"github.com/gorilla/mux"
)

func main() {
	config.Load() // load env vars, fatal if required ones are missing

	db := mysql.LoadDB()
	defer db.Close()

	mongoDB := mongo.LoadDB()

	logger := logger.Load()

	registry := presence.NewRegistry()
	wsHub := hub.New(registry, config.ClientOrigin(), logger)

	r := mux.NewRouter()
	routing.InitRoutes(r, db, mongoDB, wsHub, config.ClientOrigin(), logger)
	routing.ServeStaticFiles(r)
	routing.StartServer(r, config.Port())
}
