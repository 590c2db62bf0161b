package storage

import (
	"log"
	"os"

	"new-rent-server/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Rental{},
		&models.Review{},
		&models.KYCDocument{},
		&models.KYCVerification{},
		&models.AuditLog{},
	)

	seedCategories(db)
}

// seedCategories inserts the default browse categories on a fresh database.
func seedCategories(db *gorm.DB) {
	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []models.Category{
		{Name: "Electronics", Description: "Cameras, drones, audio gear and other gadgets"},
		{Name: "Tools", Description: "Power tools and equipment for home and garden"},
		{Name: "Outdoors", Description: "Camping, hiking and water sports equipment"},
		{Name: "Vehicles", Description: "Bikes, scooters and trailers"},
		{Name: "Events", Description: "Party, wedding and photography equipment"},
		{Name: "Other", Description: "Everything else"},
	}
	if err := db.Create(&defaults).Error; err != nil {
		log.Println("Warning: could not seed categories:", err)
	}
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}
