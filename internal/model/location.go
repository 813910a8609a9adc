package model

import "fmt"

// Location says where a task record lives. A task is either scheduled on a
// date in the main collection or held in exactly one custom list.
type Location struct {
	date   string
	listID string
}

// Scheduled places a task in the main collection on date (YYYY-MM-DD)
func Scheduled(date string) Location {
	return Location{date: date}
}

// InList places a task in the custom list with the given id
func InList(listID string) Location {
	return Location{listID: listID}
}

// IsList reports whether the location is a custom list
func (l Location) IsList() bool {
	return l.listID != ""
}

// List returns the list id and true when the location is a custom list
func (l Location) List() (string, bool) {
	return l.listID, l.listID != ""
}

// Date returns the scheduled date, empty for list locations
func (l Location) Date() string {
	if l.IsList() {
		return ""
	}
	return l.date
}

func (l Location) String() string {
	if l.IsList() {
		return fmt.Sprintf("list:%s", l.listID)
	}
	return fmt.Sprintf("date:%s", l.date)
}
