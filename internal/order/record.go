// Package order persists confirmed orders and notifies staff about them.
package order

import "time"

// StatusSubmitted is the status written for every freshly confirmed order.
const StatusSubmitted = "Yuborildi"

// Record is a single confirmed order as it appears in the order log.
type Record struct {
	Time     time.Time `json:"time"`
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Address  string    `json:"address"`
	Location string    `json:"location"`
	Items    string    `json:"items"`
	Note     string    `json:"note"`
	Total    int64     `json:"total"`
	Status   string    `json:"status"`
}

// Appender durably appends order records to a backing store.
type Appender interface {
	Append(rec Record) error
}
