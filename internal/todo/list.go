package todo

import (
	"fmt"
	"math"
)

// NotSelected is what Selected reports when no item has focus.
const NotSelected = -1

// MaxItems is the largest count the file header can describe.
const MaxItems = math.MaxInt32

// GrowthPolicy returns the capacity to grow to once a list of capacity
// current is full.
type GrowthPolicy func(current int) int

// Doubling is the default GrowthPolicy: 1, 2, 4, 8...
func Doubling(current int) int {
	if current < 1 {
		return 1
	}
	return current * 2
}

// Option customises a List at construction.
type Option func(*List)

// WithGrowth replaces the doubling growth policy.
func WithGrowth(policy GrowthPolicy) Option {
	return func(l *List) {
		if policy != nil {
			l.growth = policy
		}
	}
}

// WithMaxItems lowers the item limit below MaxItems.
func WithMaxItems(limit int) Option {
	return func(l *List) {
		if limit > 0 && limit < MaxItems {
			l.maxItems = limit
		}
	}
}

// List is an ordered, growable collection of items plus the index the
// front end currently has focused. Indices are the only identity and shift
// when an item is deleted.
type List struct {
	items    []Item
	selected int
	growth   GrowthPolicy
	maxItems int
}

// NewList returns an empty list with room for one item.
func NewList(opts ...Option) *List {
	l := &List{
		selected: NotSelected,
		growth:   Doubling,
		maxItems: MaxItems,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.items = make([]Item, 0, 1)
	return l
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

// Cap returns the number of items the list can hold before growing.
func (l *List) Cap() int {
	return cap(l.items)
}

// Item returns a copy of the item at index.
func (l *List) Item(index int) (Item, error) {
	if err := l.checkIndex("item", index); err != nil {
		return Item{}, err
	}
	return l.items[index], nil
}

// Items returns a copy of every item in order.
func (l *List) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Clone returns an independent copy of the list, selection included.
func (l *List) Clone() *List {
	c := &List{
		selected: l.selected,
		growth:   l.growth,
		maxItems: l.maxItems,
		items:    make([]Item, len(l.items), cap(l.items)),
	}
	copy(c.items, l.items)
	return c
}

// Add appends item, growing the backing array when it is full. On error the
// list is left untouched.
func (l *List) Add(item Item) error {
	if len(l.items) == cap(l.items) {
		if err := l.grow(); err != nil {
			return err
		}
	}
	item.Contents = clampContents(item.Contents)
	l.items = append(l.items, item)
	return nil
}

func (l *List) grow() error {
	current := cap(l.items)
	if current >= l.maxItems {
		return &Error{Kind: ErrCapacity, Op: "add", Msg: fmt.Sprintf("list is full at %d items", current)}
	}
	next := l.growth(current)
	if next > l.maxItems {
		next = l.maxItems
	}
	if next <= current {
		return &Error{Kind: ErrCapacity, Op: "add", Msg: "failed to expand todo list"}
	}
	items := make([]Item, len(l.items), next)
	copy(items, l.items)
	l.items = items
	return nil
}

// Delete removes the item at index; later items move up one place. A
// selection past the new end is clamped to the last item (or cleared when the
// list becomes empty); any other selection keeps its index, so callers that
// track focus by item should revalidate it afterwards.
func (l *List) Delete(index int) error {
	if err := l.checkIndex("delete", index); err != nil {
		return err
	}
	last := len(l.items) - 1
	copy(l.items[index:], l.items[index+1:])
	l.items[last] = Item{}
	l.items = l.items[:last]
	if l.selected >= len(l.items) {
		l.selected = len(l.items) - 1
	}
	return nil
}

// Swap exchanges the items at i and j.
func (l *List) Swap(i, j int) error {
	if err := l.checkIndex("swap", i); err != nil {
		return err
	}
	if err := l.checkIndex("swap", j); err != nil {
		return err
	}
	l.items[i], l.items[j] = l.items[j], l.items[i]
	return nil
}

// AdvanceStatus moves the item at index to its next status and returns it.
func (l *List) AdvanceStatus(index int) (Status, error) {
	if err := l.checkIndex("advance", index); err != nil {
		return StatusTodo, err
	}
	l.items[index].Status = l.items[index].Status.Next()
	return l.items[index].Status, nil
}

// SetContents replaces the text of the item at index. Text longer than the
// item limit is cut, as in NewItem.
func (l *List) SetContents(index int, text string) error {
	if err := l.checkIndex("edit", index); err != nil {
		return err
	}
	l.items[index].Contents = clampContents(text)
	return nil
}

// Selected returns the focused index, or NotSelected and false.
func (l *List) Selected() (int, bool) {
	if l.selected < 0 || l.selected >= len(l.items) {
		return NotSelected, false
	}
	return l.selected, true
}

// Select focuses the item at index.
func (l *List) Select(index int) error {
	if err := l.checkIndex("select", index); err != nil {
		return err
	}
	l.selected = index
	return nil
}

// ClearSelection drops focus.
func (l *List) ClearSelection() {
	l.selected = NotSelected
}

// ClampSelection pulls the selection back into range after the list shrank,
// or focuses the first item when there is no selection and items exist.
func (l *List) ClampSelection() {
	switch {
	case len(l.items) == 0:
		l.selected = NotSelected
	case l.selected < 0:
		l.selected = 0
	case l.selected >= len(l.items):
		l.selected = len(l.items) - 1
	}
}

// Counts tallies items per status.
func (l *List) Counts() map[Status]int {
	counts := make(map[Status]int, statusCount)
	for _, item := range l.items {
		counts[item.Status]++
	}
	return counts
}

func (l *List) checkIndex(op string, index int) error {
	if index < 0 || index >= len(l.items) {
		return indexError(op, index, len(l.items))
	}
	return nil
}
