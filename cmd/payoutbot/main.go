package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"

	"github.com/gratefultolord/ac_payout_bot/internal/bot"
	"github.com/gratefultolord/ac_payout_bot/internal/config"
	"github.com/gratefultolord/ac_payout_bot/internal/db"
	"github.com/gratefultolord/ac_payout_bot/internal/sweep"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	database, err := db.New(cfg)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database.Conn, "db_scripts/init.sql"); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Error creating telegram bot: %v", err)
	}

	payoutRepo := db.NewPayoutRequestRepository(database.Conn)
	managerRepo := db.NewManagerRepository(database.Conn)

	allowed, err := loadAllowed(cfg, managerRepo)
	if err != nil {
		log.Fatalf("Error loading managers: %v", err)
	}

	botService := bot.New(botAPI, payoutRepo, managerRepo, cfg, allowed)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := sweep.New(payoutRepo, botService, cfg.LogChatID)
	sweeper.Start(ctx)

	go func() {
		<-ctx.Done()
		botAPI.StopReceivingUpdates()
	}()

	log.Printf("Payout bot started as @%s", botAPI.Self.UserName)

	botService.Start()
}

func loadAllowed(cfg *config.Config, managerRepo *db.ManagerRepository) (map[int64]bool, error) {
	allowed := make(map[int64]bool, len(cfg.AllowedUserIDs))
	for id := range cfg.AllowedUserIDs {
		allowed[id] = true
	}

	managers, err := managerRepo.GetAll()
	if err != nil {
		return nil, err
	}

	for _, m := range managers {
		allowed[m.ChatID] = true
	}

	return allowed, nil
}
