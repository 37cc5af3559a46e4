package todo

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContentsLen bounds the stored text of an item. The on-disk reader
// reserves one byte of it, so at most MaxContentsLen-1 bytes of text fit.
const MaxContentsLen = 256

// Status expresses how far along an item is.
type Status int32

const (
	// StatusTodo marks items nobody has started.
	StatusTodo Status = iota
	// StatusInProgress marks items being worked on.
	StatusInProgress
	// StatusDone marks finished items.
	StatusDone

	statusCount = 3
)

// Next returns the status that follows s in the todo → in progress → done cycle.
func (s Status) Next() Status {
	return (s + 1) % statusCount
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	return s >= StatusTodo && s < statusCount
}

func (s Status) String() string {
	switch s {
	case StatusTodo:
		return "todo"
	case StatusInProgress:
		return "doing"
	case StatusDone:
		return "done"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// ParseStatus maps a user-supplied name back to a Status.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "todo", "t":
		return StatusTodo, nil
	case "doing", "in-progress", "progress", "p":
		return StatusInProgress, nil
	case "done", "d":
		return StatusDone, nil
	default:
		return StatusTodo, fmt.Errorf("invalid status %q (expected todo|doing|done)", value)
	}
}

// Item is a single entry of a List.
type Item struct {
	Status    Status
	CreatedAt time.Time
	Contents  string
}

var now = time.Now

// NewItem returns a todo item stamped with the current second.
func NewItem(text string) Item {
	return Item{
		Status:    StatusTodo,
		CreatedAt: time.Unix(now().Unix(), 0),
		Contents:  clampContents(text),
	}
}

// clampContents cuts text to fit MaxContentsLen without splitting a rune.
func clampContents(text string) string {
	limit := MaxContentsLen - 1
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
