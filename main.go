package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"salesops-auth/authclient"
	"salesops-auth/cli"
	"salesops-auth/config"
	"salesops-auth/database"
	"salesops-auth/server"

	_ "github.com/mattn/go-sqlite3"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run modules (start, create-migration, login)")
	nameFlag := flag.String("name", "", "Migration name (alphanum+underscore only)")
	dirFlag := flag.String("dir", "./database/migrations", "Target directory for the new .sql file")

	cfg, err := config.Load(flag.CommandLine, os.Args[1:], ".env")
	if err != nil {
		fmt.Println("Invalid configuration:", err)
		os.Exit(1)
	}

	if *commandFlag == "" {
		fmt.Println("Usage: go run main.go --command <command-name> [... other options]")
		os.Exit(1)
	}

	switch *commandFlag {
	case "start":
		server.StartServer(cfg)
	case "create-migration":
		if err := database.CreateMigration(*nameFlag, *dirFlag); err != nil {
			fmt.Println("Failed to create migration:", err)
			os.Exit(1)
		}
	case "login":
		logger.Init(logger.LoggerConfig{
			CallerKey:  "file",
			TimeKey:    "timestamp",
			CallerSkip: 1,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		ac := authclient.NewAuthContext(
			authclient.NewClient(cfg.ServerURL, cfg.ClientTimeout),
			authclient.NewFileStorage(cfg.SessionFile),
		)
		if err := cli.Login(ctx, ac, cli.NewTermPrompter(os.Stdin, os.Stdout), os.Stdout); err != nil {
			logger.Error("Login failed", zap.Error(err))
			fmt.Println(err)
			os.Exit(1)
		}
	default:
		fmt.Println("Unknown command:", *commandFlag)
		os.Exit(1)
	}
}
