package main

import (
	"context"
	"fmt"
	"log"

	"pizza_store/internal/config"
	"pizza_store/internal/database"
	"pizza_store/internal/models"
	"pizza_store/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	fmt.Println("Initializing database...")
	ctx := context.Background()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Force recreate all tables
	fmt.Println("Dropping existing tables...")
	err = db.Migrator().DropTable(
		&models.OrderItem{},
		&models.Order{},
		&models.ProductVariant{},
		&models.Product{},
		&models.Category{},
		&models.User{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	// Create tables with proper schema
	fmt.Println("Creating tables...")
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Create default admin user
	fmt.Println("Creating default admin user...")
	userRepo := repository.NewUserRepository(db)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	admin := &models.User{
		Username:     "admin",
		PasswordHash: string(hashedPassword),
		IsAdmin:      true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		fmt.Println("Admin user created successfully")
		fmt.Println("Username: admin")
		fmt.Println("Password: admin123")
	}

	// Seed a small menu
	fmt.Println("Seeding menu...")
	policy := repository.VariantDeletePolicy(cfg.VariantDeletePolicy)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db, policy)
	variantRepo := repository.NewProductVariantRepository(db, policy)

	pizzas := &models.Category{Name: "Pizzas"}
	if err := categoryRepo.Create(ctx, pizzas); err != nil {
		log.Fatal("Failed to create category:", err)
	}

	drinks := &models.Category{Name: "Drinks"}
	if err := categoryRepo.Create(ctx, drinks); err != nil {
		log.Fatal("Failed to create category:", err)
	}

	margarita := &models.Product{
		Name:        "Margarita",
		CategoryID:  pizzas.ID,
		Description: "Tomatoes, mozzarella, basil",
		ImageURL:    "https://images.pizza-store.example/margarita.jpg",
	}
	if err := productRepo.Create(ctx, margarita); err != nil {
		log.Fatal("Failed to create product:", err)
	}

	pepperoni := &models.Product{
		Name:        "Pepperoni",
		CategoryID:  pizzas.ID,
		Description: "Pepperoni, mozzarella, tomato sauce",
		ImageURL:    "https://images.pizza-store.example/pepperoni.jpg",
	}
	if err := productRepo.Create(ctx, pepperoni); err != nil {
		log.Fatal("Failed to create product:", err)
	}

	variants := []models.ProductVariant{
		{ProductID: margarita.ID, Name: "Small", Weight: decimal.NewFromInt(350), WeightUnits: "g", Price: decimal.RequireFromString("2.50")},
		{ProductID: margarita.ID, Name: "Large", Weight: decimal.NewFromInt(550), WeightUnits: "g", Price: decimal.RequireFromString("3.70")},
		{ProductID: pepperoni.ID, Name: "Small", Weight: decimal.NewFromInt(380), WeightUnits: "g", Price: decimal.RequireFromString("2.90")},
		{ProductID: pepperoni.ID, Name: "Large", Weight: decimal.NewFromInt(580), WeightUnits: "g", Price: decimal.RequireFromString("4.10")},
	}
	for i := range variants {
		if err := variantRepo.Create(ctx, &variants[i]); err != nil {
			log.Fatal("Failed to create product variant:", err)
		}
	}

	fmt.Println("Database initialized successfully!")
}
