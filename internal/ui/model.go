package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/faizmokh/tudu/internal/logging"
	"github.com/faizmokh/tudu/internal/todo"
)

// Options tune the TUI.
type Options struct {
	// AutoSave writes the list back on q when it has unsaved changes.
	AutoSave bool
	// RelativeTime renders creation times as "3 hours ago".
	RelativeTime bool
	Logger       *log.Logger
}

// Model owns Bubble Tea state for the main TUI experience.
type Model struct {
	list   *todo.List
	path   string
	opts   Options
	logger *log.Logger

	keys  keyMap
	help  help.Model
	input textinput.Model

	mode         mode
	editingIndex int
	dirty        bool
	loading      bool

	// revision counts mutations; a save only clears dirty for the revision it wrote.
	revision uint64

	statusLine string
	errorLine  string

	// copyText is swapped in tests so the system clipboard stays untouched.
	copyText func(string) error
}

type mode uint8

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

type listLoadedMsg struct {
	list *todo.List
	err  error
}

type savedMsg struct {
	count    int
	revision uint64
	quit     bool
	err      error
}

type copiedMsg struct {
	err error
}

// NewModel seeds a Bubble Tea model that edits the list stored at path.
func NewModel(path string, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = todo.MaxContentsLen - 1

	return Model{
		list:         todo.NewList(),
		path:         path,
		opts:         opts,
		logger:       logger,
		keys:         defaultKeyMap(),
		help:         help.New(),
		input:        input,
		mode:         modeNormal,
		editingIndex: -1,
		loading:      true,
		statusLine:   "Loading list...",
		copyText:     clipboard.WriteAll,
	}
}

// List exposes the list being edited.
func (m Model) List() *todo.List {
	return m.list
}

// Dirty reports whether the list has changes that were not saved.
func (m Model) Dirty() bool {
	return m.dirty
}

// Init loads the list from disk.
func (m Model) Init() tea.Cmd {
	return loadListCmd(m.path)
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 8
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case listLoadedMsg:
		return m.handleListLoaded(msg)
	case savedMsg:
		return m.handleSaved(msg)
	case copiedMsg:
		return m.handleCopied(msg)
	default:
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		if m.dirty {
			m.logger.Warn("quitting with unsaved changes", "path", m.path)
		}
		return m, tea.Quit
	}
	if m.mode != modeNormal {
		return m.handleInputKey(msg)
	}
	if m.loading {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(-1)
	case key.Matches(msg, m.keys.MoveDown):
		return m.moveItem(1)
	case key.Matches(msg, m.keys.MoveUp):
		return m.moveItem(-1)
	case key.Matches(msg, m.keys.Add):
		return m.beginAdd()
	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit()
	case key.Matches(msg, m.keys.Advance):
		return m.advanceSelected()
	case key.Matches(msg, m.keys.Delete):
		return m.beginDelete()
	case key.Matches(msg, m.keys.Save):
		return m.save(false)
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	case key.Matches(msg, m.keys.Yank):
		return m.copySelected()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAdd, modeEdit:
		switch msg.Type {
		case tea.KeyEnter:
			return m.submitInput()
		case tea.KeyEsc:
			return m.cancelInput("Cancelled.")
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case modeConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			return m.confirmDelete()
		case "n", "N", "esc":
			return m.cancelInput("Delete cancelled.")
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) selected() (int, bool) {
	return m.list.Selected()
}

func (m Model) moveCursor(delta int) (tea.Model, tea.Cmd) {
	index, ok := m.selected()
	if !ok {
		return m, nil
	}
	target := index + delta
	if target < 0 || target >= m.list.Len() {
		return m, nil
	}
	if err := m.list.Select(target); err != nil {
		m.errorLine = err.Error()
		return m, nil
	}
	m.statusLine = fmt.Sprintf("Selected item %d of %d", target+1, m.list.Len())
	m.errorLine = ""
	return m, nil
}

func (m Model) moveItem(delta int) (tea.Model, tea.Cmd) {
	index, ok := m.selected()
	if !ok {
		return m, nil
	}
	target := index + delta
	if target < 0 || target >= m.list.Len() {
		return m, nil
	}
	if err := m.list.Swap(index, target); err != nil {
		m.errorLine = todo.ResultOf(err, "").Message
		return m, nil
	}
	_ = m.list.Select(target)
	m.markDirty()
	m.statusLine = fmt.Sprintf("Moved item to position %d.", target+1)
	m.errorLine = ""
	return m, nil
}

func (m Model) beginAdd() (tea.Model, tea.Cmd) {
	m.mode = modeAdd
	m.editingIndex = -1
	m.input.Placeholder = "What needs doing?"
	m.input.SetValue("")
	m.statusLine = ""
	m.errorLine = ""
	return m, m.input.Focus()
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	index, ok := m.selected()
	if !ok {
		return m, nil
	}
	item, err := m.list.Item(index)
	if err != nil {
		m.errorLine = todo.ResultOf(err, "").Message
		return m, nil
	}

	m.mode = modeEdit
	m.editingIndex = index
	m.input.Placeholder = ""
	m.input.SetValue(item.Contents)
	m.input.CursorEnd()
	m.statusLine = ""
	m.errorLine = ""
	return m, m.input.Focus()
}

func (m Model) beginDelete() (tea.Model, tea.Cmd) {
	index, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.mode = modeConfirmDelete
	m.editingIndex = index
	m.statusLine = ""
	m.errorLine = ""
	return m, nil
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		m.errorLine = "Item cannot be empty."
		return m, nil
	}

	switch m.mode {
	case modeAdd:
		if err := m.list.Add(todo.NewItem(text)); err != nil {
			m.errorLine = fmt.Sprintf("Add failed: %s", todo.ResultOf(err, "").Message)
			m.logger.Error("add item", "err", err)
			return m, nil
		}
		_ = m.list.Select(m.list.Len() - 1)
		m.statusLine = "Item added." + clippedNotice(text)
	case modeEdit:
		if err := m.list.SetContents(m.editingIndex, text); err != nil {
			m.errorLine = fmt.Sprintf("Edit failed: %s", todo.ResultOf(err, "").Message)
			m.logger.Error("edit item", "index", m.editingIndex, "err", err)
			return m.cancelInput("")
		}
		m.statusLine = fmt.Sprintf("Updated item %d.", m.editingIndex+1) + clippedNotice(text)
	}

	m.markDirty()
	m.errorLine = ""
	m.mode = modeNormal
	m.editingIndex = -1
	m.input.Blur()
	m.input.SetValue("")
	return m, nil
}

func (m Model) cancelInput(message string) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	m.editingIndex = -1
	m.input.Blur()
	m.input.SetValue("")
	if message != "" {
		m.statusLine = message
		m.errorLine = ""
	}
	return m, nil
}

func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	index := m.editingIndex
	if err := m.list.Delete(index); err != nil {
		m.errorLine = fmt.Sprintf("Delete failed: %s", todo.ResultOf(err, "").Message)
		return m.cancelInput("")
	}
	// Indices shift on delete; keep focus on the item that moved into place.
	m.list.ClampSelection()

	m.markDirty()
	m.mode = modeNormal
	m.editingIndex = -1
	m.statusLine = fmt.Sprintf("Deleted item %d.", index+1)
	m.errorLine = ""
	return m, nil
}

func (m Model) advanceSelected() (tea.Model, tea.Cmd) {
	index, ok := m.selected()
	if !ok {
		return m, nil
	}
	status, err := m.list.AdvanceStatus(index)
	if err != nil {
		m.errorLine = todo.ResultOf(err, "").Message
		return m, nil
	}
	m.markDirty()
	m.statusLine = fmt.Sprintf("Item %d is now %s.", index+1, status)
	m.errorLine = ""
	return m, nil
}

func (m Model) save(quit bool) (tea.Model, tea.Cmd) {
	m.statusLine = "Saving..."
	m.errorLine = ""
	return m, saveListCmd(m.list.Clone(), m.path, m.revision, quit)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.opts.AutoSave && m.dirty {
		return m.save(true)
	}
	return m, tea.Quit
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	m.statusLine = "Reloading..."
	if m.dirty {
		m.statusLine = "Reloading, unsaved changes discarded..."
	}
	m.errorLine = ""
	return m, loadListCmd(m.path)
}

func (m Model) copySelected() (tea.Model, tea.Cmd) {
	index, ok := m.selected()
	if !ok {
		return m, nil
	}
	item, err := m.list.Item(index)
	if err != nil {
		return m, nil
	}
	copyText := m.copyText
	return m, func() tea.Msg {
		return copiedMsg{err: copyText(item.Contents)}
	}
}

func (m Model) handleListLoaded(msg listLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		// A failed load may have decoded some items; none of them are trusted.
		m.errorLine = fmt.Sprintf("Failed to load %s: %s", m.path, todo.ResultOf(msg.err, "").Message)
		m.statusLine = ""
		m.logger.Error("load list", "path", m.path, "err", msg.err)
		return m, nil
	}

	m.list = msg.list
	m.list.ClampSelection()
	m.dirty = false
	m.revision++
	m.errorLine = ""
	if m.list.Len() == 0 {
		m.statusLine = "No items. Press a to add one."
	} else {
		m.statusLine = fmt.Sprintf("Loaded %d item%s.", m.list.Len(), plural(m.list.Len()))
	}
	m.logger.Info("list loaded", "path", m.path, "items", m.list.Len())
	return m, nil
}

func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Save failed: %s", todo.ResultOf(msg.err, "").Message)
		m.statusLine = ""
		m.logger.Error("save list", "path", m.path, "err", msg.err)
		return m, nil
	}

	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Saved %d item%s.", msg.count, plural(msg.count))
	m.logger.Info("list saved", "path", m.path, "items", msg.count)
	if msg.revision != m.revision {
		// The list changed while the snapshot was being written.
		if msg.quit {
			return m.save(true)
		}
		m.statusLine += " Newer changes are not saved yet."
		return m, nil
	}
	m.dirty = false
	if msg.quit {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleCopied(msg copiedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Copy failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}
	m.errorLine = ""
	m.statusLine = "Copied to clipboard."
	return m, nil
}

func loadListCmd(path string) tea.Cmd {
	return func() tea.Msg {
		list := todo.NewList()
		if err := todo.Load(list, path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return listLoadedMsg{list: todo.NewList()}
			}
			return listLoadedMsg{err: err}
		}
		return listLoadedMsg{list: list}
	}
}

func saveListCmd(snapshot *todo.List, path string, revision uint64, quit bool) tea.Cmd {
	return func() tea.Msg {
		err := todo.Save(snapshot, path)
		return savedMsg{count: snapshot.Len(), revision: revision, quit: quit, err: err}
	}
}

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder

	counts := m.list.Counts()
	title := "tudu"
	if m.dirty {
		title += "*"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s", m.path)))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%s %d  %s %d  %s %d\n\n",
		renderBadge(todo.StatusTodo), counts[todo.StatusTodo],
		renderBadge(todo.StatusInProgress), counts[todo.StatusInProgress],
		renderBadge(todo.StatusDone), counts[todo.StatusDone],
	)

	if m.loading {
		b.WriteString("Loading...\n")
	} else if m.list.Len() == 0 {
		b.WriteString(mutedStyle.Render("(no items)"))
		b.WriteByte('\n')
	} else {
		selected, _ := m.selected()
		for i, item := range m.list.Items() {
			b.WriteString(m.renderRow(i, item, i == selected))
			b.WriteByte('\n')
		}
	}

	switch m.mode {
	case modeAdd, modeEdit:
		label := "New item (Enter to save, Esc to cancel)"
		if m.mode == modeEdit {
			label = fmt.Sprintf("Edit item %d (Enter to save, Esc to cancel)", m.editingIndex+1)
		}
		b.WriteByte('\n')
		b.WriteString(inputBoxStyle.Render(label + "\n" + m.input.View()))
		b.WriteByte('\n')
	case modeConfirmDelete:
		b.WriteByte('\n')
		fmt.Fprintf(&b, "Delete item %d? (y/n, Esc to cancel)\n", m.editingIndex+1)
	}

	if m.errorLine != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + m.errorLine))
		b.WriteByte('\n')
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.statusLine))
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteByte('\n')

	return b.String()
}

func (m Model) renderRow(index int, item todo.Item, selected bool) string {
	cursor := "  "
	contents := item.Contents
	if selected {
		cursor = cursorStyle.Render("> ")
		contents = selectedStyle.Render(contents)
	}
	if item.Status == todo.StatusDone {
		contents = doneText.Render(item.Contents)
	}
	return fmt.Sprintf("%s%s %s %s",
		cursor,
		renderBadge(item.Status),
		contents,
		mutedStyle.Render(formatAge(item.CreatedAt, m.opts.RelativeTime)),
	)
}

func (m *Model) markDirty() {
	m.dirty = true
	m.revision++
}

// clippedNotice warns when text exceeds what an item can store. The input
// field limits runes while storage limits bytes.
func clippedNotice(text string) string {
	if len(text) < todo.MaxContentsLen {
		return ""
	}
	return fmt.Sprintf(" Text cut to %d bytes.", todo.MaxContentsLen-1)
}

func formatAge(created time.Time, relative bool) string {
	if relative {
		return humanize.Time(created)
	}
	return created.Format("2006-01-02 15:04")
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
