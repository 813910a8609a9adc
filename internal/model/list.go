package model

import "math/rand/v2"

// CustomList is a named, colored container of tasks outside the weekly schedule
type CustomList struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Tasks []Task `json:"tasks"`
}

// ListPalette holds the gradient descriptors a new list may be given
var ListPalette = []string{
	"from-purple-500 to-pink-500",
	"from-blue-500 to-cyan-500",
	"from-green-500 to-emerald-500",
	"from-yellow-500 to-orange-500",
	"from-red-500 to-pink-500",
	"from-indigo-500 to-purple-500",
}

// RandomListColor picks a palette entry for a list created without a color
func RandomListColor() string {
	return ListPalette[rand.IntN(len(ListPalette))]
}

// Clone returns a deep copy of the list and its tasks
func (l CustomList) Clone() CustomList {
	c := l
	c.Tasks = make([]Task, len(l.Tasks))
	for i, t := range l.Tasks {
		c.Tasks[i] = t.Clone()
	}
	return c
}

// CompletedCount returns how many of the list's tasks are done
func (l CustomList) CompletedCount() int {
	n := 0
	for _, t := range l.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
