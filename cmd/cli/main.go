package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Rabindra900/mission-shakti-cafe/internal/models"
	"github.com/Rabindra900/mission-shakti-cafe/internal/store"
)

func main() {
	addDishCmd := flag.NewFlagSet("add-dish", flag.ExitOnError)
	name := addDishCmd.String("name", "", "Dish name")
	price := addDishCmd.Int("price", -1, "Price in whole rupees")
	mrp := addDishCmd.Int("mrp", 0, "Optional list price in whole rupees")
	category := addDishCmd.String("category", "", "Category (Biryani, Snacks, Main Course, Dessert, Beverages)")
	vegType := addDishCmd.String("veg", "", "Veg or Non-veg (optional)")
	bestSeller := addDishCmd.Bool("best-seller", false, "Mark as best seller")
	isNew := addDishCmd.Bool("new", false, "Mark as new")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-dish' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-dish":
		addDishCmd.Parse(os.Args[2:])
		if *name == "" || *category == "" || *price < 0 {
			fmt.Println("name, category and a non-negative price are required")
			addDishCmd.PrintDefaults()
			os.Exit(1)
		}
		addDish(&models.Dish{
			Name:         *name,
			Price:        *price,
			MRP:          *mrp,
			Category:     *category,
			VegType:      *vegType,
			IsBestSeller: *bestSeller,
			IsNew:        *isNew,
		})
	default:
		fmt.Println("expected 'add-dish' subcommand")
		os.Exit(1)
	}
}

func addDish(dish *models.Dish) {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./cafe.db"
	}
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure schema exists if running cli before server
	if err := db.Migrate(migrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := db.CreateDish(dish); err != nil {
		log.Fatalf("Failed to create dish: %v", err)
	}

	fmt.Printf("Dish '%s' created with id %d.\n", dish.Name, dish.ID)
}
