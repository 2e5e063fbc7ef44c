package main

import (
	"github.com/placementcell/placement-service/config"
	"github.com/placementcell/placement-service/internal/api"
	"github.com/placementcell/placement-service/internal/logger"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	api.StartServer(cfg)
}
