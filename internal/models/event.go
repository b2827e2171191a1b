package models

import "time"

// Event is a ticketed happening published on the marketplace.
type Event struct {
	Base
	OrganizerID string    `json:"organizerId" gorm:"type:varchar(36);index"`
	Title       string    `json:"title" gorm:"type:varchar(150)"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Capacity    int       `json:"capacity"`
	Reserved    int       `json:"reserved" gorm:"not null;default:0"`
	Price       float64   `json:"price"`
	Status      string    `json:"status" gorm:"type:varchar(20);index;default:draft"`
}

// Reservation holds seats booked by a user for an event.
type Reservation struct {
	Base
	EventID string  `json:"eventId" gorm:"type:varchar(36);index"`
	Event   *Event  `json:"event,omitempty" gorm:"foreignKey:EventID"`
	UserID  string  `json:"userId" gorm:"type:varchar(36);index"`
	Seats   int     `json:"seats"`
	Total   float64 `json:"total"`
	Status  string  `json:"status" gorm:"type:varchar(20);default:confirmed"`
}
