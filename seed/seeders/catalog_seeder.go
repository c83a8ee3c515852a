package seeders

import (
	"errors"
	"log"
	"time"

	"github.com/guessworks/hangbot_api/model"
	"gorm.io/gorm"
)

// CatalogSeeder handles seeding the cosmetic shop catalog
type CatalogSeeder struct {
	db *gorm.DB
}

// NewCatalogSeeder creates a new catalog seeder
func NewCatalogSeeder(db *gorm.DB) *CatalogSeeder {
	return &CatalogSeeder{db: db}
}

// SeedCatalog inserts the default shop items, skipping existing ones
func (s *CatalogSeeder) SeedCatalog() error {
	if err := s.db.AutoMigrate(&model.ShopItem{}); err != nil {
		return err
	}

	inserted := 0
	for _, item := range model.DefaultCatalog() {
		var existing model.ShopItem
		err := s.db.Where("id = ?", item.ID).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		item.CreatedAt = time.Now()
		if err := s.db.Create(&item).Error; err != nil {
			log.Printf("Error creating shop item %s: %v", item.ID, err)
			return err
		}
		inserted++
	}

	log.Printf("Seeded %d shop items", inserted)
	return nil
}
