package model

// Permission is a named capability drawn from a fixed catalog. Rows are
// idempotently ensured to exist at startup (create-if-missing by name).
type Permission struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
}
