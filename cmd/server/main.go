package main

import (
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pixel-plaza/internal/api"
	"pixel-plaza/internal/config"
	"pixel-plaza/internal/logging"
	"pixel-plaza/internal/session"
	"pixel-plaza/internal/world"
)

func main() {
	envLoaded := godotenv.Load(".env") == nil

	cfg := config.Load()
	logging.Init(cfg.Server.LogFile)
	defer logging.Sync()

	if envLoaded {
		logging.Log.Info("✅ Loaded environment from .env")
	} else {
		logging.Log.Info("💡 No .env file found, using environment variables only")
	}

	logging.Log.Info("🏙️ ================================")
	logging.Log.Info("🏙️  PIXEL PLAZA - PRESENCE SERVER")
	logging.Log.Info("🏙️ ================================")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	fixture := world.Generate(cfg.World, rng)
	logging.Log.Infof("🌲 World generated: %d trees, %d rocks, %d bushes, %d houses",
		len(fixture.Trees), len(fixture.Rocks), len(fixture.Bushes), len(fixture.Houses))

	engine := session.NewEngine(cfg.World, cfg.Session, fixture, rng)

	if cfg.Session.EventLogPath != "" {
		eventLog := session.NewEventLog()
		if err := eventLog.Start(cfg.Session.EventLogPath); err != nil {
			logging.Log.Warnf("⚠️ Event log disabled: %v", err)
		} else {
			engine.SetEventLog(eventLog)
			defer eventLog.Stop()
			logging.Log.Infof("📝 Event log: %s", cfg.Session.EventLogPath)
		}
	}

	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			logging.Log.Warnf("⚠️ Debug server disabled: %v", err)
		}
	}

	server := api.NewServer(engine, cfg.Server)
	defer server.Stop()

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	go func() {
		logging.Log.Infof("🌐 Open: http://localhost%s", addr)
		if err := server.Start(addr); err != nil {
			logging.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logging.Log.Info("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	logging.Log.Info("🛑 Shutting down...")
	logging.Log.Info("👋 Goodbye!")
}
