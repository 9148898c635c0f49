package scope

import "gorm.io/gorm"

// OrderByUpdatedDesc lists recently touched rows first.
func OrderByUpdatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("updated_at DESC").Order("created_at DESC")
}

// Chronological orders messages oldest first, insertion order on ties.
func Chronological(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("seq ASC")
}

// ReverseChronological orders messages newest first, insertion order on ties.
func ReverseChronological(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("seq DESC")
}
