package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"clubdesk.org/internal/config"
	"clubdesk.org/internal/migrate"
	"clubdesk.org/internal/store/pg"
)

func main() {
	var (
		dir      = flag.String("dir", "ops/migrations/sql", "directory with .up.sql/.down.sql files")
		seedsDir = flag.String("seeds", "ops/migrations/seeds", "directory with seed .sql files")
	)
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.DB.DSN == "" {
		log.Fatal("db.dsn is required (CLUBDESK_DB_DSN)")
	}

	store, err := pg.Open(cfg.DB.DSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	mgr := migrate.NewManager(store.DB(), *dir, *seedsDir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch cmd {
	case "up":
		if err := mgr.Up(ctx); err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		log.Println("migrations applied")
	case "down":
		if err := mgr.Down(ctx); err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		log.Println("last migration rolled back")
	case "status":
		applied, err := mgr.Status(ctx)
		if err != nil {
			log.Fatalf("migrate status: %v", err)
		}
		if len(applied) == 0 {
			fmt.Println("no migrations applied")
			return
		}
		for _, name := range applied {
			fmt.Println(name)
		}
	case "seed":
		if err := mgr.Seed(ctx); err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Println("seeds applied")
	default:
		fmt.Fprintf(os.Stderr, "usage: migrate [up|down|status|seed]\n")
		os.Exit(2)
	}
}
