package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"boost-bot/bot"
	"boost-bot/config"
	"boost-bot/handlers"
	"boost-bot/lang"
	"boost-bot/storage"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to config file")
	cleanup := flag.Bool("cleanup", false, "Remove slash commands on shutdown")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if tok := os.Getenv("DISCORD_TOKEN"); tok != "" {
		cfg.Discord.Token = tok
	}
	if cfg.Discord.Token == "" {
		log.Fatal("Set your bot token in config.json → discord.token or the DISCORD_TOKEN env var")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Bad configuration: %v", err)
	}

	lang.Load(cfg.Lang.File)

	store, err := storage.InitStore(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialise storage: %v", err)
	}
	defer store.Close()

	b, err := bot.New(cfg.Discord.Token, cfg.Discord.GuildID)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	handlers.Init(b.Session, cfg, store)
	handlers.Register(b.Session)

	if err := b.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}
	defer b.Stop()

	b.RegisterCommands(handlers.Commands())

	log.Println("Bot is running. Press Ctrl+C to exit.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	if *cleanup {
		b.CleanupCommands()
	}
}
