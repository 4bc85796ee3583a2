// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"caseledger/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort   string
	HistoryLimit int
	DB           db.Config
}

// LoadConfig loads configuration from environment variables.
// Every variable has a development default.
func LoadConfig() (*AppConfig, error) {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	dbPath := os.Getenv("LEDGER_DB_PATH")
	if dbPath == "" {
		dbPath = "case_battle_ledger.db"
	}

	historyLimit := 10
	if limitStr := os.Getenv("HISTORY_LIMIT"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("invalid HISTORY_LIMIT %q", limitStr)
		}
		historyLimit = limit
	}

	return &AppConfig{
		ServerPort:   serverPort,
		HistoryLimit: historyLimit,
		DB: db.Config{
			Path: dbPath,
		},
	}, nil
}
