// Seed adds sample tasks to the database. Run from project root: go run ./scripts/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"task-service/internal/config"
	"task-service/internal/database"
	"task-service/internal/models"
	"task-service/internal/repository"
	"task-service/pkg/logger"
)

func main() {
	total := flag.Int("n", 1000, "number of tasks to insert")
	flag.Parse()

	config.LoadEnvFile(".env")

	ctx := context.Background()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	db, err := database.Open(ctx, cfg, logger.Discard())
	if err != nil {
		fmt.Fprintln(os.Stderr, "DB connection failed:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.MigrateOrCreateSchema(ctx, db); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	statuses := []models.Status{models.StatusPending, models.StatusInProgress, models.StatusCompleted}
	repo := repository.NewTaskRepository(db)
	start := time.Now()

	for i := 1; i <= *total; i++ {
		desc := fmt.Sprintf("Description for task %d", i)
		in := models.TaskCreate{
			Title:       fmt.Sprintf("Task %d", i),
			Description: &desc,
			Status:      statuses[i%len(statuses)],
		}
		if _, err := repo.Create(ctx, in); err != nil {
			fmt.Fprintln(os.Stderr, "\nInsert failed:", err)
			os.Exit(1)
		}
		if i%100 == 0 || i == *total {
			fmt.Printf("\rInserted %d / %d", i, *total)
		}
	}

	fmt.Printf("\nDone: %d tasks in %v\n", *total, time.Since(start))
}
