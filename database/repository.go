package database

import (
	"github.com/anjiri1684/driving_tutor/services"
	"gorm.io/gorm"
)

// Stores builds the gorm-backed implementations of every service port.
func Stores(db *gorm.DB) services.Stores {
	return services.Stores{
		Users:       NewUserRepo(db),
		Instructors: NewInstructorRepo(db),
		Slots:       NewSlotRepo(db),
		Messages:    NewMessageRepo(db),
		Reviews:     NewReviewRepo(db),
		Orphans:     NewOrphanRepo(db),
	}
}
