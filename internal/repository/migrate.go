package repository

import "gorm.io/gorm"

// Migrate creates or updates every table the marketplace uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&clientProfileModel{},
		&companyProfileModel{},
		&categoryModel{},
		&subcategoryModel{},
		&projectModel{},
		&bidModel{},
	)
}
