package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/vocabot/internal/bot"
	"github.com/example/vocabot/internal/catalog"
	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/internal/excel"
	"github.com/example/vocabot/internal/scheduler"
	"github.com/example/vocabot/internal/wordlist"
	"github.com/example/vocabot/pkg/models"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environments set variables directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	words, err := loadWords()
	if err != nil {
		log.Fatalf("Failed to load words: %v", err)
	}

	cat, err := catalog.New(words)
	if err != nil {
		log.Fatalf("Failed to build catalog: %v", err)
	}
	log.Printf("Catalog ready: %d words", cat.Len())

	b, err := bot.New(cat)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	var sched *scheduler.Scheduler
	if os.Getenv("ENABLE_SCHEDULER") != "false" {
		sched = scheduler.New(b)
		sched.Start()
	}

	done := make(chan struct{})

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if sched != nil {
			sched.Stop()
		}
		if err := b.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	go func() {
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Bot error: %v", err)
		}
	}()

	<-done
	log.Println("Bot stopped successfully")
}

// loadWords assembles the word catalog source: an optional one-off Excel or
// CSV import, an optional words.json seed when the table is empty, then the
// stored words.
func loadWords() ([]models.WordEntry, error) {
	wordRepo := database.NewWordRepository()

	if path := os.Getenv("IMPORT_FILE"); path != "" {
		cfg := excel.DefaultImportConfig()
		cfg.FilePath = path
		result, err := excel.ImportWords(cfg)
		if err != nil {
			return nil, err
		}
		log.Printf("Imported %s: %d created, %d updated, %d skipped",
			path, result.Created, result.Updated, result.Skipped)
		for _, e := range result.Errors {
			log.Printf("Import: %s", e)
		}
	}

	count, err := wordRepo.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		path := os.Getenv("WORDS_FILE")
		if path == "" {
			path = "words.json"
		}
		words, err := wordlist.Load(path)
		if err != nil {
			return nil, err
		}
		for _, w := range words {
			if _, err := wordRepo.Upsert(w); err != nil {
				return nil, err
			}
		}
		log.Printf("Seeded %d words from %s", len(words), path)
	}

	return wordRepo.GetAll()
}
