package database

import (
	"fmt"

	"gorm.io/gorm"

	"visaguide/internal/model"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.VisaInfo{}, &model.User{}); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}
