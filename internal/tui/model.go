// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/fretdrill/internal/drill"
	"github.com/verte-zerg/fretdrill/internal/fretboard"
	"github.com/verte-zerg/fretdrill/internal/keymap"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/note"
	statsPkg "github.com/verte-zerg/fretdrill/internal/stats"
	"github.com/verte-zerg/fretdrill/internal/store"
	"github.com/verte-zerg/fretdrill/internal/timer"
)

const (
	frameInterval = 100 * time.Millisecond
	marginX       = 2
	marginY       = 1
	// title, status, prompt and message rows sit above the fretboard.
	headerRows = 4
)

type frameMsg time.Time

type advanceMsg struct {
	session uuid.UUID
}

// SessionFactory builds a fresh drill session.
type SessionFactory func() (drill.Session, error)

// Model implements the Bubble Tea drill UI.
type Model struct {
	config     model.Config
	bounds     fretboard.Bounds
	newSession SessionFactory
	store      *store.Store
	logger     *slog.Logger

	keys keymap.Mapping
	help help.Model

	width  int
	height int

	session  drill.Session
	sessions []drill.Session

	cursor     fretboard.Position
	sharp      bool
	flash      flash
	message    string
	advancing  bool
	advanceDue bool

	report *statsPkg.Report
	table  table.Model
	err    error
}

// NewModel constructs a drill TUI model around a first session. The store
// may be nil, in which case the finished screen has no per-note table.
func NewModel(cfg model.Config, factory SessionFactory, st *store.Store) (*Model, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Model{
		config: cfg,
		bounds: fretboard.Bounds{
			MinString: cfg.MinString,
			MaxString: cfg.MaxString,
			MinFret:   cfg.MinFret,
			MaxFret:   cfg.MaxFret,
		},
		newSession: factory,
		store:      st,
		logger:     logger.With("component", "tui"),
		keys:       keymap.DefaultMapping(),
		help:       help.New(),
	}
	if err := m.startNew(); err != nil {
		return nil, err
	}
	return m, nil
}

// Sessions returns every session started from this model, oldest first.
func (m *Model) Sessions() []drill.Session {
	out := make([]drill.Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func advanceAfter(delay time.Duration, id uuid.UUID) tea.Cmd {
	msg := advanceMsg{session: id}
	if delay <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return msg
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case frameMsg:
		m.flash = m.flash.tick()
		return m, frameTick()
	case advanceMsg:
		m.handleAdvance(msg)
		return m, nil
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for _, el := range m.elements() {
			if act, ok := el.HitTest(msg.X, msg.Y); ok {
				return m, m.apply(act)
			}
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) screen() keymap.Screen {
	switch m.session.State() {
	case drill.Playing:
		if m.session.Kind() == model.DrillFindAll {
			return keymap.ScreenFind
		}
		return keymap.ScreenName
	case drill.Paused:
		return keymap.ScreenPaused
	case drill.Finished:
		return keymap.ScreenFinished
	default:
		return keymap.ScreenReady
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.keys.Activate(m.screen())
	switch {
	case key.Matches(msg, m.keys.Exit):
		m.finishActive()
		return tea.Quit
	case key.Matches(msg, m.keys.Start):
		return m.apply(action{kind: actionStart})
	case key.Matches(msg, m.keys.Pause):
		return m.apply(action{kind: actionPause})
	case key.Matches(msg, m.keys.Resume):
		return m.apply(action{kind: actionResume})
	case key.Matches(msg, m.keys.NewSession):
		return m.apply(action{kind: actionNewSession})
	case key.Matches(msg, m.keys.Quit):
		return m.apply(action{kind: actionQuit})
	case key.Matches(msg, m.keys.Sharp):
		m.sharp = !m.sharp
		return nil
	case key.Matches(msg, m.keys.Note):
		return m.answerLetter(strings.ToUpper(msg.String()))
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Pick):
		return m.apply(action{kind: actionPick, pos: m.cursor})
	}
	return nil
}

// apply runs an action against the session. Actions that do not fit the
// current state are ignored so no input can break the lifecycle.
func (m *Model) apply(act action) tea.Cmd {
	state := m.session.State()
	switch act.kind {
	case actionStart:
		if state == drill.Ready {
			m.session.Start()
			m.logger.Info("session started", "id", m.session.ID(), "drill", m.session.Kind())
		}
	case actionPause:
		if state == drill.Playing {
			m.session.Pause()
		}
	case actionResume:
		if state == drill.Paused {
			m.session.Resume()
			if m.advanceDue {
				m.advance()
			}
		}
	case actionQuit:
		if state == drill.Ready || state == drill.Finished {
			return tea.Quit
		}
		m.finish()
	case actionNewSession:
		if state == drill.Finished {
			if err := m.startNew(); err != nil {
				m.err = err
			}
		}
	case actionNote:
		if state == drill.Playing {
			m.answer(act.note)
		}
	case actionPick:
		if state == drill.Playing {
			return m.pick(act.pos)
		}
	}
	return nil
}

func (m *Model) answerLetter(letter string) tea.Cmd {
	name := letter
	if m.sharp {
		name += "#"
	}
	m.sharp = false
	guess, err := note.Parse(name)
	if errors.Is(err, note.ErrUnknownNote) {
		m.message = fmt.Sprintf("%s is not a note", name)
		return nil
	}
	if err != nil {
		m.err = err
		return nil
	}
	return m.apply(action{kind: actionNote, note: guess})
}

func (m *Model) answer(guess note.PitchClass) {
	ns, ok := m.session.(*drill.NameSession)
	if !ok {
		return
	}
	res := ns.SubmitAnswer(guess)
	if res.Success() {
		m.flash = newFlash(flashCorrect, m.config.FlashFrames)
		m.message = fmt.Sprintf("%s is right", guess)
		return
	}
	m.flash = newFlash(flashWrong, m.config.FlashFrames)
	m.message = fmt.Sprintf("Not %s, try again", guess)
}

func (m *Model) pick(pos fretboard.Position) tea.Cmd {
	fs, ok := m.session.(*drill.FindSession)
	if !ok || m.advancing || !m.bounds.Contains(pos) {
		return nil
	}
	m.cursor = pos
	res := fs.SubmitPositionPick(pos.String, pos.Fret)
	if !res.Success() {
		m.flash = newFlash(flashWrong, m.config.FlashFrames)
		m.message = "Miss"
		return nil
	}
	m.flash = newFlash(flashCorrect, m.config.FlashFrames)
	m.message = fmt.Sprintf("Found %d of %d", len(fs.FoundPositions()), len(fs.TargetPositions()))
	if !fs.Complete() {
		return nil
	}
	m.advancing = true
	return advanceAfter(m.config.AdvanceDelay, fs.ID())
}

// handleAdvance moves to the next target once the delay has run out. A
// delay that expires while paused is applied on resume.
func (m *Model) handleAdvance(msg advanceMsg) {
	if !m.advancing || m.session.ID() != msg.session {
		return
	}
	switch m.session.State() {
	case drill.Playing:
		m.advance()
	case drill.Paused:
		m.advanceDue = true
	default:
		m.advancing = false
	}
}

func (m *Model) advance() {
	m.advancing = false
	m.advanceDue = false
	fs, ok := m.session.(*drill.FindSession)
	if !ok || !fs.Complete() {
		return
	}
	fs.Advance()
	m.message = ""
	if target, ok := fs.Target(); ok {
		m.logger.Debug("next target", "note", target.String())
	}
}

func (m *Model) moveCursor(dString, dFret int) {
	next := fretboard.Position{String: m.cursor.String + dString, Fret: m.cursor.Fret + dFret}
	if m.bounds.Contains(next) {
		m.cursor = next
	}
}

func (m *Model) finishActive() {
	switch m.session.State() {
	case drill.Playing, drill.Paused:
		m.finish()
	}
}

func (m *Model) finish() {
	m.session.Quit()
	m.advancing = false
	m.advanceDue = false
	m.flash = flash{}
	st := m.session.Stats()
	m.logger.Info("session finished",
		"id", m.session.ID(),
		"total", st.Total,
		"accuracy", st.AccuracyPercent,
		"elapsed", m.session.Elapsed(),
	)
	m.loadReport()
}

func (m *Model) loadReport() {
	if m.store == nil {
		return
	}
	report, err := statsPkg.BuildReport(context.Background(), m.store, m.session.ID())
	if err != nil {
		m.logger.Warn("failed to build report", "err", err)
		m.err = err
		return
	}
	m.report = &report
	m.table = makeNoteTable(report.NoteAggs)
}

func (m *Model) startNew() error {
	s, err := m.newSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	m.session = s
	m.sessions = append(m.sessions, s)
	m.cursor = fretboard.Position{String: m.bounds.MinString, Fret: m.bounds.MinFret}
	m.sharp = false
	m.flash = flash{}
	m.message = ""
	m.advancing = false
	m.advanceDue = false
	m.report = nil
	m.err = nil
	return nil
}

func makeNoteTable(aggs []model.NoteAggregate) table.Model {
	columns := []table.Column{
		{Title: "Note", Width: 6},
		{Title: "Accuracy", Width: 10},
		{Title: "Avg ms", Width: 8},
		{Title: "Correct", Width: 8},
		{Title: "Incorrect", Width: 10},
	}
	rows := make([]table.Row, 0, len(aggs))
	for _, r := range statsPkg.NoteRows(aggs) {
		rows = append(rows, table.Row(statsPkg.FormatRow(r)))
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return t
}

// elements lays out the clickable widgets of the current screen. View
// renders the same layout, so hit-testing matches what is drawn.
func (m *Model) elements() []Element {
	var out []Element
	board, showBoard := m.board()
	if showBoard {
		out = append(out, board)
	}
	for _, row := range m.buttonRows() {
		for _, b := range row {
			out = append(out, b)
		}
	}
	return out
}

func (m *Model) board() (fretboardView, bool) {
	view := fretboardView{
		origin: point{x: marginX, y: marginY + headerRows},
		tuning: m.config.Tuning,
		bounds: m.bounds,
		marks:  map[fretboard.Position]cellMark{},
		flash:  m.flash,
	}
	switch s := m.session.(type) {
	case *drill.NameSession:
		switch s.State() {
		case drill.Ready:
			m.markAllNotes(view.marks)
		case drill.Playing:
			if item, ok := s.CurrentItem(); ok {
				view.marks[fretboard.Position{String: item.String, Fret: item.Fret}] = markQuery
			}
		default:
			return view, false
		}
	case *drill.FindSession:
		switch s.State() {
		case drill.Ready:
			m.markAllNotes(view.marks)
		case drill.Playing:
			for _, pos := range s.TargetPositions() {
				if s.IsFound(pos) {
					view.marks[pos] = markFound
				} else if s.Complete() {
					view.marks[pos] = markTarget
				}
			}
			cursor := m.cursor
			view.cursor = &cursor
		default:
			return view, false
		}
	default:
		return view, false
	}
	return view, true
}

func (m *Model) markAllNotes(marks map[fretboard.Position]cellMark) {
	for _, item := range m.session.AllItems() {
		pos := fretboard.Position{String: item.String, Fret: item.Fret}
		if item.Note.Natural() {
			marks[pos] = markNatural
		} else {
			marks[pos] = markNote
		}
	}
}

// bodyTop is the first row below the fretboard, or below the header when
// no fretboard is shown.
func (m *Model) bodyTop() int {
	top := marginY + headerRows
	if board, ok := m.board(); ok {
		top += board.Height() + 1
	}
	return top
}

func (m *Model) buttonRows() [][]button {
	top := m.bodyTop()
	control := func(label string, kind actionKind) button {
		return button{label: label, act: action{kind: kind}, style: buttonStyle}
	}
	var rows [][]button
	switch m.session.State() {
	case drill.Ready:
		rows = append(rows, []button{control("Start", actionStart), control("Quit", actionQuit)})
	case drill.Playing:
		if m.session.Kind() == model.DrillNameNote {
			notes := make([]button, 0, note.Count)
			for _, p := range note.All() {
				notes = append(notes, button{label: p.String(), act: action{kind: actionNote, note: p}, style: noteButtonStyle})
			}
			rows = append(rows, notes)
		}
		rows = append(rows, []button{control("Pause", actionPause), control("Quit", actionQuit)})
	case drill.Paused:
		rows = append(rows, []button{control("Resume", actionResume), control("Quit", actionQuit)})
	case drill.Finished:
		return nil
	}
	out := make([][]button, 0, len(rows))
	for i, row := range rows {
		out = append(out, buttonRow(point{x: marginX, y: top + i}, row))
	}
	return out
}

// View implements tea.Model.
func (m *Model) View() string {
	m.keys.Activate(m.screen())
	lines := make([]string, 0, 32)
	for i := 0; i < marginY; i++ {
		lines = append(lines, "")
	}
	lines = append(lines, titleStyle.Render(m.title()))
	lines = append(lines, statusStyle.Render(m.statusLine()))
	lines = append(lines, m.flash.style(promptStyle).Render(m.prompt()))
	lines = append(lines, messageStyle.Render(m.message))

	if board, ok := m.board(); ok {
		lines = append(lines, strings.Split(board.Render(), "\n")...)
		lines = append(lines, "")
	}
	for _, row := range m.buttonRows() {
		lines = append(lines, renderButtons(row))
	}
	if m.session.State() == drill.Finished {
		lines = append(lines, m.finishedBody()...)
	}
	if m.err != nil {
		lines = append(lines, "", errorStyle.Render(m.err.Error()))
	}
	lines = append(lines, "", m.help.View(m.keys))

	pad := strings.Repeat(" ", marginX)
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) title() string {
	drillName := "Name the note"
	if m.session.Kind() == model.DrillFindAll {
		drillName = "Find every position"
	}
	return fmt.Sprintf("fretdrill · %s · %s", drillName, fretboard.FormatTuning(m.config.Tuning))
}

func (m *Model) statusLine() string {
	st := m.session.Stats()
	segments := []string{
		fmt.Sprintf("Time %s", timer.Format(m.session.Elapsed())),
		fmt.Sprintf("Correct %d", st.Correct),
		fmt.Sprintf("Incorrect %d", st.Incorrect),
		fmt.Sprintf("Accuracy %.1f%%", st.AccuracyPercent),
		fmt.Sprintf("Avg %.2fs", st.AverageResponseTimeSeconds),
	}
	if m.session.Kind() == model.DrillFindAll {
		segments = append(segments, fmt.Sprintf("Hits %d", st.Hits), fmt.Sprintf("Misses %d", st.Misses))
	}
	return strings.Join(segments, "  ")
}

func (m *Model) prompt() string {
	switch m.session.State() {
	case drill.Ready:
		return "Every note in range is shown. Press start when ready."
	case drill.Paused:
		return "Paused"
	case drill.Finished:
		return "Session finished"
	}
	switch s := m.session.(type) {
	case *drill.NameSession:
		if m.sharp {
			return "Which note is marked? #"
		}
		return "Which note is marked?"
	case *drill.FindSession:
		target, ok := s.Target()
		if !ok {
			return ""
		}
		if s.Complete() {
			return fmt.Sprintf("All %s found", target)
		}
		return fmt.Sprintf("Find every %s", target)
	}
	return ""
}

func (m *Model) finishedBody() []string {
	st := m.session.Stats()
	lines := []string{
		fmt.Sprintf("Answered %d in %s", st.Total, timer.Format(m.session.Elapsed())),
		"",
	}
	if m.report == nil || len(m.report.NoteAggs) == 0 {
		return append(lines, messageStyle.Render("No note stats recorded."))
	}
	lines = append(lines, strings.Split(m.table.View(), "\n")...)
	if len(m.report.WeakNotes) > 0 {
		lines = append(lines, "", fmt.Sprintf("Practice next: %s", strings.Join(m.report.WeakNotes, ", ")))
	}
	return lines
}
