package models

import "gorm.io/gorm"

// MigrateTable auto-migrates every collection this layer persists.
func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Shop{},
		&Product{},
		&Sale{},
		&Activity{},
	)
}
