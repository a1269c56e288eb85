package specification

import "gorm.io/gorm"

// ByProcessingStatus filters documents by their processing lifecycle state.
type ByProcessingStatus struct {
	Statuses []string
}

func (s ByProcessingStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("processing_status IN ?", s.Statuses)
}
