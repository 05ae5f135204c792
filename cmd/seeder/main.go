package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/locvowork/hr_data_bridge/internal/bootstrap"
	"github.com/locvowork/hr_data_bridge/internal/database"
	"github.com/locvowork/hr_data_bridge/internal/logger"
)

func main() {
	// Define flags
	action := flag.String("action", "seed", "Action to perform: seed, clear")
	preset := flag.String("preset", "medium", "Data preset: small, medium, large")
	employees := flag.Int("employees", 0, "Number of employees (overrides preset)")
	localRatio := flag.Float64("local-ratio", 0.6, "Fraction of employees mirrored into the replica store")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("HR Data Bridge Seeder")
	fmt.Println(strings.Repeat("=", 50))

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		log.Fatal(err)
	}
	defer app.DB.Close()

	seeder := database.NewDataSeeder(app.DB, app.Elastic)

	switch *action {
	case "seed":
		n := presetSize(*preset)
		if *employees > 0 {
			n = *employees
		}
		fmt.Printf("Seeding %d employees (local ratio %.2f)...\n", n, *localRatio)
		primary, replica, err := seeder.SeedEmployees(ctx, n, *localRatio)
		if err != nil {
			logger.ErrorLog(ctx, "Seeding failed: %v", err)
			log.Fatal(err)
		}
		fmt.Printf("Seeded %d primary rows, %d replica documents\n", primary, replica)

	case "clear":
		fmt.Println("Clearing seeded data...")
		if err := seeder.Clear(ctx); err != nil {
			logger.ErrorLog(ctx, "Clear failed: %v", err)
			log.Fatal(err)
		}
		fmt.Println("Cleared")

	default:
		fmt.Printf("Unknown action: %s\n", *action)
		flag.PrintDefaults()
	}
}

func presetSize(preset string) int {
	switch preset {
	case "small":
		return 50
	case "large":
		return 10000
	default:
		return 1000
	}
}
