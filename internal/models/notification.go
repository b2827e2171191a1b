package models

// Notification is a message shown to a user in their dashboard.
type Notification struct {
	Base
	UserID  string `json:"userId" gorm:"type:varchar(36);index"`
	Type    string `json:"type" gorm:"type:varchar(50)"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Read    bool   `json:"read" gorm:"column:is_read;not null;default:false"`
}

// StatusChange is the audit row written for every applied status transition.
type StatusChange struct {
	Base
	EntityType string `json:"entityType" gorm:"type:varchar(30);index:idx_status_entity"`
	EntityID   string `json:"entityId" gorm:"type:varchar(36);index:idx_status_entity"`
	FromStatus string `json:"from" gorm:"type:varchar(20)"`
	ToStatus   string `json:"to" gorm:"type:varchar(20)"`
	ActorID    string `json:"actorId" gorm:"type:varchar(36)"`
}
