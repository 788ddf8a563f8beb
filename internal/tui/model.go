package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/mreport/internal/domain"
	"github.com/emiliopalmerini/mreport/internal/report"
)

// Focusable elements of the form, in tab order.
type field int

const (
	fieldTitle field = iota
	fieldDescription
	fieldBug
	fieldFeedback
	fieldScreenshot
	fieldSend
	fieldCancel
	fieldCount
)

const defaultBackdrop = `  ACME Inventory                                      v%s
  ────────────────────────────────────────────────────────

  Warehouse     Items     Reserved     Last sync
  Berlin         1,204        88       2 minutes ago
  Lisbon           930       112       5 minutes ago
  Milan          2,447       301       just now
  Oslo             318         4       1 hour ago

  3 pending transfers · 1 failed import · 12 users online`

type eventMsg struct {
	event report.Event
}

type submitDoneMsg struct {
	result domain.SubmissionResult
	err    error
}

// Options configures the terminal host.
type Options struct {
	// Backdrop is the host screen the form is drawn over.
	Backdrop string
	// Version is shown in the default backdrop.
	Version string
	// OpenOnStart shows the form as soon as the program starts.
	OpenOnStart bool
	// QuitOnClose ends the program when the form is cancelled.
	QuitOnClose bool
}

// Model is the bubbletea model hosting a report form over a host screen.
type Model struct {
	ctx         context.Context
	ctrl        *report.Controller
	capturer    *Capturer
	bus         *bus
	unsubscribe func()

	title       textinput.Model
	description textarea.Model
	focus       field

	backdrop     string
	quitOnClose  bool
	chromeHidden bool
	submitting   bool
	notice       string

	styles styles
	width  int
	height int
}

// NewCapturer returns the frame capturer to pass to the controller that
// NewModel will drive.
func NewCapturer() *Capturer {
	return newCapturer(newBus())
}

// NewModel binds ctrl to a terminal form. capturer must be the one given
// to ctrl with report.WithCapturer.
func NewModel(ctx context.Context, ctrl *report.Controller, capturer *Capturer, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = ""

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.SetWidth(50)
	ta.SetHeight(5)
	ta.CharLimit = domain.MaxDescriptionLength

	backdrop := opts.Backdrop
	if backdrop == "" {
		version := opts.Version
		if version == "" {
			version = "dev"
		}
		backdrop = fmt.Sprintf(defaultBackdrop, version)
	}

	b := capturer.bus
	m := Model{
		ctx:         ctx,
		ctrl:        ctrl,
		capturer:    capturer,
		bus:         b,
		title:       ti,
		description: ta,
		backdrop:    backdrop,
		quitOnClose: opts.QuitOnClose,
		styles:      newStyles(),
	}
	m.unsubscribe = ctrl.Subscribe(func(e report.Event) {
		b.tryPost(eventMsg{event: e})
	})

	if opts.OpenOnStart {
		_ = ctrl.Show()
	}
	m.syncInputs()
	m.applyFocus()
	return m
}

// Run starts the terminal program and blocks until it exits.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	defer m.unsubscribe()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bus.listen(), textarea.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.description.SetWidth(min(50, msg.Width-10))
		return m, nil

	case eventMsg:
		switch msg.event.Kind {
		case report.EventDraftChanged:
			m.syncInputs()
		case report.EventCloseRequested:
			if m.quitOnClose {
				return m, tea.Quit
			}
		}
		return m, m.bus.listen()

	case chromeMsg:
		m.chromeHidden = msg.hidden
		return m, m.bus.listen()

	case submitDoneMsg:
		m.submitting = false
		m.notice = ""
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		m.syncInputs()
		if msg.result.OK() {
			m.focus = fieldTitle
		}
		return m, m.applyFocus()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	state := m.ctrl.State()
	if state == domain.StateIdle {
		switch key {
		case "ctrl+r", "r":
			m.notice = ""
			if err := m.ctrl.Show(); err != nil {
				m.notice = err.Error()
				return m, nil
			}
			m.focus = fieldTitle
			m.syncInputs()
			return m, m.applyFocus()
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}
	// Submit runs in a command, so the controller may not be in flight yet.
	if state.InFlight() || m.submitting {
		return m, nil
	}

	switch key {
	case "esc":
		return m.cancel()
	case "ctrl+s":
		return m.submit()
	case "tab":
		m.focus = (m.focus + 1) % fieldCount
		return m, m.applyFocus()
	case "shift+tab":
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		return m, m.applyFocus()
	}

	switch m.focus {
	case fieldTitle:
		if key == "enter" {
			m.focus = fieldDescription
			return m, m.applyFocus()
		}
		return m.updateInputs(msg)
	case fieldDescription:
		return m.updateInputs(msg)
	}

	if key == "enter" || key == " " {
		return m.activate()
	}
	return m, nil
}

// updateInputs forwards msg to the focused input and copies its value into
// the draft.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
		if m.title.Value() != m.ctrl.Draft().Title {
			m.setNotice(m.ctrl.SetTitle(m.title.Value()))
		}
	case fieldDescription:
		m.description, cmd = m.description.Update(msg)
		value := m.description.Value()
		if value != m.ctrl.Draft().Description {
			stored, err := m.ctrl.UpdateDescription(value)
			m.setNotice(err)
			if err == nil && stored != value {
				m.description.SetValue(stored)
			}
		}
	}
	return m, cmd
}

func (m Model) activate() (tea.Model, tea.Cmd) {
	switch m.focus {
	case fieldBug:
		m.setNotice(m.ctrl.SelectCategory(domain.CategoryBug))
	case fieldFeedback:
		m.setNotice(m.ctrl.SelectCategory(domain.CategoryFeedback))
	case fieldScreenshot:
		m.setNotice(m.ctrl.SetIncludeScreenshot(!m.ctrl.Draft().IncludeScreenshot))
	case fieldSend:
		return m.submit()
	case fieldCancel:
		return m.cancel()
	}
	m.applyPlaceholders()
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	m.notice = ""
	ctx, ctrl := m.ctx, m.ctrl
	return m, func() tea.Msg {
		result, err := ctrl.Submit(ctx)
		return submitDoneMsg{result: result, err: err}
	}
}

func (m Model) cancel() (tea.Model, tea.Cmd) {
	m.notice = ""
	m.setNotice(m.ctrl.Cancel())
	m.syncInputs()
	return m, nil
}

func (m *Model) setNotice(err error) {
	if err != nil {
		m.notice = err.Error()
	}
}

// syncInputs copies the draft into the inputs after the controller changed it.
func (m *Model) syncInputs() {
	draft := m.ctrl.Draft()
	if m.title.Value() != draft.Title {
		m.title.SetValue(draft.Title)
	}
	if m.description.Value() != draft.Description {
		m.description.SetValue(draft.Description)
	}
	m.applyPlaceholders()
}

func (m *Model) applyPlaceholders() {
	p := m.ctrl.Placeholder()
	m.title.Placeholder = p.Title
	m.description.Placeholder = p.Description
}

func (m *Model) applyFocus() tea.Cmd {
	m.title.Blur()
	m.description.Blur()
	switch m.focus {
	case fieldTitle:
		return m.title.Focus()
	case fieldDescription:
		return m.description.Focus()
	}
	return nil
}

func (m Model) View() string {
	screen := m.renderBackdrop()

	vis := m.ctrl.Visibility()
	if vis.Shown && !m.chromeHidden {
		screen = overlay(screen, m.renderPanel(vis), m.width)
	}

	m.capturer.frameRendered(screen, m.chromeHidden)
	return screen
}

func (m Model) renderBackdrop() string {
	lines := strings.Split(m.backdrop, "\n")
	for len(lines) < m.height-1 {
		lines = append(lines, "")
	}
	if m.ctrl.State() == domain.StateIdle {
		lines = append(lines, m.styles.hint.Render("  ctrl+r report a problem · q quit"))
	}
	return m.styles.backdrop.Render(strings.Join(lines, "\n"))
}

func (m Model) renderPanel(vis report.Visibility) string {
	var b strings.Builder
	draft := m.ctrl.Draft()

	b.WriteString(m.styles.title.Render("REPORT A PROBLEM"))
	b.WriteString("\n")
	b.WriteString(m.styles.helpSep.Render(strings.Repeat("─", 50)))
	b.WriteString("\n\n")

	b.WriteString(m.styles.label.Render("Category  "))
	for _, category := range domain.Categories {
		b.WriteString(m.renderCategory(category, draft.Category == category))
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderLabel("TITLE", fieldTitle))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderLabel("DESCRIPTION", fieldDescription))
	b.WriteString("  ")
	b.WriteString(m.styles.counter.Render(m.ctrl.CharCount()))
	b.WriteString("\n")
	b.WriteString(m.description.View())
	b.WriteString("\n\n")

	checkbox := "[ ]"
	if draft.IncludeScreenshot {
		checkbox = "[x]"
	}
	b.WriteString(m.renderButton(checkbox+" Include screenshot", fieldScreenshot, draft.IncludeScreenshot))
	b.WriteString("\n\n")

	b.WriteString(m.renderButton(" Send ", fieldSend, false))
	b.WriteString("  ")
	b.WriteString(m.renderButton(" Cancel ", fieldCancel, false))
	b.WriteString("\n\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	panel := m.styles.panel.Render(b.String())
	if vis.Mode == report.VisibilityFade && !vis.Interactable {
		panel = lipgloss.NewStyle().Faint(true).Render(panel)
	}
	return panel
}

func (m Model) renderCategory(category domain.Category, selected bool) string {
	f := fieldBug
	if category == domain.CategoryFeedback {
		f = fieldFeedback
	}
	label := " " + category.Label() + " "
	if selected {
		label = "[" + category.Label() + "]"
	}
	return m.renderButton(label, f, selected)
}

func (m Model) renderLabel(text string, f field) string {
	if m.focus == f {
		return m.styles.subtitle.Render("› " + text)
	}
	return m.styles.label.Render("  " + text)
}

func (m Model) renderButton(text string, f field, selected bool) string {
	switch {
	case m.focus == f:
		return m.styles.focused.Render(text)
	case selected:
		return m.styles.selected.Render(text)
	default:
		return m.styles.unselected.Render(text)
	}
}

func (m Model) renderStatus() string {
	switch m.ctrl.State() {
	case domain.StateSubmitting:
		return m.styles.busy.Render("Sending report...")
	case domain.StateCapturingScreenshot:
		return m.styles.busy.Render("Capturing screenshot...")
	case domain.StateUploadingScreenshot:
		return m.styles.busy.Render("Uploading screenshot...")
	}

	if m.notice != "" {
		return m.styles.statusErr.Render(m.notice)
	}
	status, ok := m.ctrl.Status()
	if !ok {
		return ""
	}
	if status.OK() {
		return m.styles.status.Render(status.Message())
	}
	return m.styles.statusErr.Render(status.Message())
}

type keyBinding struct {
	key  string
	desc string
}

func (m Model) renderHelp() string {
	bindings := []keyBinding{
		{"tab", "next"},
		{"⏎/spc", "select"},
		{"ctrl+s", "send"},
		{"esc", "cancel"},
	}

	var parts []string
	for _, kb := range bindings {
		parts = append(parts, m.styles.helpKey.Render(kb.key)+m.styles.helpDesc.Render(":"+kb.desc))
	}
	return strings.Join(parts, m.styles.helpSep.Render("  /  "))
}

// overlay draws panel centered over base, replacing the rows it covers.
func overlay(base, panel string, width int) string {
	baseLines := strings.Split(base, "\n")
	panelLines := strings.Split(panel, "\n")

	top := max(0, (len(baseLines)-len(panelLines))/2)
	for len(baseLines) < top+len(panelLines) {
		baseLines = append(baseLines, "")
	}

	indent := strings.Repeat(" ", max(0, (width-lipgloss.Width(panel))/2))
	for i, line := range panelLines {
		baseLines[top+i] = indent + line
	}
	return strings.Join(baseLines, "\n")
}
