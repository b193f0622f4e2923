package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken            string
	DBUser              string
	DBPassword          string
	DBName              string
	DBHost              string
	DBPort              string
	LogChatID           int64
	StaffChatID         int64
	AllowedUserIDs      map[int64]bool
	AllowStatusOverride bool
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Printf("config.Load: no .env file found - using env variables")
	}

	cfg := &Config{
		BotToken:   os.Getenv("BOT_TOKEN"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("config.Load: BOT_TOKEN is required")
	}

	if cfg.DBUser == "" || cfg.DBPassword == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("config.Load: DB_USER, DB_PASSWORD, DB_NAME are required")
	}

	if cfg.DBHost == "" {
		cfg.DBHost = "localhost"
	}

	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}

	cfg.LogChatID, err = strconv.ParseInt(os.Getenv("LOG_CHAT_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config.Load: LOG_CHAT_ID is required: %w", err)
	}

	cfg.StaffChatID, err = strconv.ParseInt(os.Getenv("STAFF_CHAT_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config.Load: STAFF_CHAT_ID is required: %w", err)
	}

	cfg.AllowedUserIDs, err = parseIDList(os.Getenv("ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("config.Load: bad ALLOWED_USER_IDS: %w", err)
	}

	if raw := os.Getenv("ALLOW_STATUS_OVERRIDE"); raw != "" {
		cfg.AllowStatusOverride, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("config.Load: bad ALLOW_STATUS_OVERRIDE: %w", err)
		}
	}

	return cfg, nil
}

func parseIDList(raw string) (map[int64]bool, error) {
	ids := make(map[int64]bool)

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}

		ids[id] = true
	}

	return ids, nil
}
