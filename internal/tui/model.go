// Package tui is a Bubble Tea interface over the library: form fields for
// title, author and keyword, the catalog list, and a search results view.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bookshelf/internal/catalog"
	"bookshelf/internal/entity"
	"bookshelf/internal/usecase"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldTitle = iota
	fieldAuthor
	fieldSearch
	fieldCount
)

type view int

const (
	viewCatalog view = iota
	viewResults
)

const (
	msgEmptyFields   = "Fields cannot be empty"
	msgDuplicate     = "Duplicate book not allowed"
	msgEmptyKeyword  = "Enter search keyword"
	msgNoResult      = "No result found"
	msgSelectFirst   = "Select a book first"
	msgAdded         = "Book added"
	msgUpdated       = "Book updated"
	msgDeleted       = "Book deleted"
	msgCleared       = "Fields cleared"
	helpCatalogView  = "ctrl+a add • ctrl+u update • ctrl+d delete • ctrl+l clear • ctrl+f search • tab next field • ↑/↓ select • ctrl+c quit"
	helpResultsView  = "esc back • ctrl+c quit"
	searchResultHead = "Search results for %q"
)

// Model is the Bubble Tea model.
type Model struct {
	ctx     context.Context
	library *usecase.Library

	inputs [fieldCount]textinput.Model
	focus  int

	rows   []usecase.Row
	cursor int // -1 when no row is selected

	view    view
	keyword string
	results []entity.Record

	status    string
	statusErr bool

	width int
}

func New(ctx context.Context, library *usecase.Library) Model {
	m := Model{ctx: ctx, library: library}

	placeholders := [fieldCount]string{"Title", "Author", "Keyword"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		ti.Width = 40
		m.inputs[i] = ti
	}
	m.inputs[fieldTitle].Focus()
	m.refresh()
	return m
}

// Run starts the interface and blocks until the user quits or ctx ends.
func Run(ctx context.Context, library *usecase.Library, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(ctx, library),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.view == viewResults {
			if msg.String() == "esc" {
				m.view = viewCatalog
				m.results = nil
				m.setStatus("", false)
			}
			return m, nil
		}

		switch msg.String() {
		case "tab":
			return m, m.focusField((m.focus + 1) % fieldCount)
		case "shift+tab":
			return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
		case "up":
			m.moveCursor(-1)
			return m, nil
		case "down":
			m.moveCursor(1)
			return m, nil
		case "ctrl+a":
			m.add()
			return m, nil
		case "ctrl+u":
			m.update()
			return m, nil
		case "ctrl+d":
			m.delete()
			return m, nil
		case "ctrl+l":
			m.clearFields()
			m.setStatus(msgCleared, false)
			return m, nil
		case "ctrl+f":
			m.search()
			return m, nil
		case "enter":
			if m.focus == fieldSearch {
				m.search()
				return m, nil
			}
			return m, m.focusField(m.focus + 1)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

// moveCursor selects a neighbouring row and copies it into the form. With
// nothing selected, either arrow selects the first row.
func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	} else {
		m.cursor += delta
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	row := m.rows[m.cursor]
	m.inputs[fieldTitle].SetValue(row.Title)
	m.inputs[fieldAuthor].SetValue(row.Author)
}

func (m *Model) input() usecase.BookInput {
	return usecase.BookInput{
		Title:  m.inputs[fieldTitle].Value(),
		Author: m.inputs[fieldAuthor].Value(),
	}
}

func (m *Model) add() {
	_, err := m.library.Add(m.ctx, m.input())
	if err != nil {
		m.showError(err)
		return
	}
	m.refresh()
	m.clearFields()
	m.setStatus(msgAdded, false)
}

func (m *Model) update() {
	if m.cursor < 0 {
		m.setStatus(msgSelectFirst, true)
		return
	}
	if err := m.library.Update(m.ctx, m.cursor, m.input()); err != nil {
		m.showError(err)
		return
	}
	m.refresh()
	m.clearFields()
	m.setStatus(msgUpdated, false)
}

func (m *Model) delete() {
	if m.cursor < 0 {
		m.setStatus(msgSelectFirst, true)
		return
	}
	if err := m.library.Delete(m.ctx, m.cursor); err != nil {
		m.showError(err)
		return
	}
	m.refresh()
	m.clearFields()
	m.setStatus(msgDeleted, false)
}

func (m *Model) search() {
	keyword := m.inputs[fieldSearch].Value()
	results, err := m.library.Search(keyword)
	if err != nil {
		m.showError(err)
		return
	}
	m.keyword = keyword
	m.results = results
	m.view = viewResults
	m.setStatus("", false)
}

// refresh reloads the rows and clears the selection.
func (m *Model) refresh() {
	m.rows = m.library.Rows()
	m.cursor = -1
}

func (m *Model) clearFields() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) showError(err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		m.setStatus(msgEmptyFields, true)
	case errors.Is(err, usecase.ErrDuplicate):
		m.setStatus(msgDuplicate, true)
	case errors.Is(err, usecase.ErrEmptyKeyword):
		m.setStatus(msgEmptyKeyword, true)
	case errors.Is(err, catalog.ErrOutOfRange):
		m.setStatus(msgSelectFirst, true)
	default:
		m.setStatus(err.Error(), true)
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Library Management System"))
	b.WriteString("\n")

	if m.view == viewResults {
		b.WriteString(m.resultsView())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(helpResultsView))
		return b.String()
	}

	labels := [fieldCount]string{"Title", "Author", "Search"}
	for i := range m.inputs {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(labels[i]), m.inputs[i].View()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.listView()))
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpCatalogView))
	return b.String()
}

func (m Model) listView() string {
	if len(m.rows) == 0 {
		return helpStyle.Render("No books yet")
	}
	lines := make([]string, len(m.rows))
	for i, row := range m.rows {
		line := fmt.Sprintf("%d  %s", row.Position, row.Record().Display())
		if i == m.cursor {
			lines[i] = selectedRowStyle.Render("> " + line)
			continue
		}
		lines[i] = rowStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) resultsView() string {
	var b strings.Builder
	b.WriteString(labelStyle.UnsetWidth().Render(fmt.Sprintf(searchResultHead, m.keyword)))
	b.WriteString("\n")
	if len(m.results) == 0 {
		b.WriteString(boxStyle.Render(msgNoResult))
		return b.String()
	}
	lines := make([]string, len(m.results))
	for i, r := range m.results {
		lines[i] = r.Display()
	}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	return b.String()
}

func (m Model) statusView() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return statusErrStyle.Render(m.status)
	}
	return statusOKStyle.Render(m.status)
}
