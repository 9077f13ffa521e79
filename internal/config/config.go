// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for world and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// WORLD CONFIGURATION
// =============================================================================

// WorldConfig holds the world bounds and static object counts.
// The fixture generator and the spawn logic both read from here.
type WorldConfig struct {
	Width       float64 // World width in pixels
	Height      float64 // World height in pixels
	SpawnMargin float64 // Players never spawn closer than this to an edge
	ObjectInset float64 // Trees/rocks/bushes keep this distance from edges
	HouseInset  float64 // Houses keep a larger distance from edges

	Trees  int
	Rocks  int
	Bushes int
	Houses int
}

// DefaultWorld returns the default world configuration.
// The counts and insets match the original 3000x3000 plaza layout.
func DefaultWorld() WorldConfig {
	return WorldConfig{
		Width:       3000,
		Height:      3000,
		SpawnMargin: 100,
		ObjectInset: 100,
		HouseInset:  200,
		Trees:       80,
		Rocks:       50,
		Bushes:      60,
		Houses:      8,
	}
}

// WorldFromEnv returns world configuration with environment variable overrides.
func WorldFromEnv() WorldConfig {
	cfg := DefaultWorld()

	if w := getEnvFloat("WORLD_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvFloat("WORLD_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if n := getEnvInt("WORLD_TREES", -1); n >= 0 {
		cfg.Trees = n
	}
	if n := getEnvInt("WORLD_ROCKS", -1); n >= 0 {
		cfg.Rocks = n
	}
	if n := getEnvInt("WORLD_BUSHES", -1); n >= 0 {
		cfg.Bushes = n
	}
	if n := getEnvInt("WORLD_HOUSES", -1); n >= 0 {
		cfg.Houses = n
	}

	return cfg
}

// =============================================================================
// SESSION CONFIGURATION
// =============================================================================

// SessionConfig controls the session engine and the arcade leaderboard.
type SessionConfig struct {
	LeaderboardSize int    // Entries kept in the arcade top list
	EventLogPath    string // JSONL session log path; empty disables logging
}

// DefaultSession returns the default session configuration.
func DefaultSession() SessionConfig {
	return SessionConfig{
		LeaderboardSize: 10,
	}
}

// SessionFromEnv returns session configuration with environment overrides.
func SessionFromEnv() SessionConfig {
	cfg := DefaultSession()

	if n := getEnvInt("LEADERBOARD_SIZE", 0); n > 0 {
		cfg.LeaderboardSize = n
	}
	cfg.EventLogPath = os.Getenv("EVENT_LOG_PATH")

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP/WebSocket server settings.
type ServerConfig struct {
	Port                int
	MaxConnections      int // Hard cap on total WebSocket connections
	MaxConnectionsPerIP int
	LogFile             string // Rotating log file; empty logs to stderr only
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:                3000,
		MaxConnections:      500,
		MaxConnectionsPerIP: 10,
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if mc := getEnvInt("MAX_CONNECTIONS", 0); mc > 0 {
		cfg.MaxConnections = mc
	}
	if mp := getEnvInt("MAX_CONNECTIONS_PER_IP", 0); mp > 0 {
		cfg.MaxConnectionsPerIP = mp
	}
	cfg.LogFile = os.Getenv("LOG_FILE")

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	World   WorldConfig
	Session SessionConfig
	Server  ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		World:   WorldFromEnv(),
		Session: SessionFromEnv(),
		Server:  ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
