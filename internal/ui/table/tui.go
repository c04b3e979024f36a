package table

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/imgajeed76/ivy/internal/grid"
	"github.com/imgajeed76/ivy/internal/input"
	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/imgajeed76/ivy/internal/util"
)

// ═══════════════════════════════════════════════════════════════════════════
// Constants
// ═══════════════════════════════════════════════════════════════════════════

const (
	defaultColWidth = 20
	minColWidth     = 3
	maxEditWidth    = 60

	// title, header and separator sit above the first row
	gridTop = 3
	// scroll indicators and help sit below the last row
	gridBottom = 2

	wheelStep = 3
)

// SaveFunc persists a snapshot of the grid's rows. It runs off the UI
// goroutine, so it only ever sees a copy.
type SaveFunc func(ctx context.Context, rows [][]string) error

// EditorOptions configures RunEditor.
type EditorOptions struct {
	Title       string
	Headers     []string
	Keymaps     input.Keymaps
	DoubleClick time.Duration
	// Autosave is the interval between dirty checks; zero disables it.
	Autosave time.Duration
	// Save is nil for a read-only viewer.
	Save   SaveFunc
	Logger *slog.Logger
}

// ═══════════════════════════════════════════════════════════════════════════
// Model
// ═══════════════════════════════════════════════════════════════════════════

type editorModel struct {
	ctx    context.Context
	opts   EditorOptions
	engine *grid.Engine
	disp   *input.Dispatcher
	input  textinput.Model
	log    *slog.Logger

	width   int
	height  int
	ready   bool
	scrollX int // horizontal scroll offset in characters
	scrollY int // vertical scroll offset in rows

	// cell the edit surface is attached to
	editAt  grid.Coord
	editing bool

	// Animation state for wheel scrolling
	animating   bool
	animTargetX int
	animTargetY int

	// Status message (flash notification, e.g. after save)
	statusMsg   string
	statusErr   bool
	statusUntil time.Time

	saving  bool
	retry   bool // last save failed; try again on the next tick
	savedAt time.Time
}

type (
	statusClearMsg  struct{}
	autosaveTickMsg time.Time
	animTickMsg     time.Time
	savedMsg        struct {
		at   time.Time
		rows int
		err  error
	}
)

func newEditorModel(ctx context.Context, engine *grid.Engine, opts EditorOptions) editorModel {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Keymaps.Navigate.Bindings() == nil {
		opts.Keymaps = input.DefaultKeymaps()
	}

	d := input.New(engine, opts.Keymaps)
	d.SetDoubleClick(opts.DoubleClick)

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 512

	return editorModel{
		ctx:    ctx,
		opts:   opts,
		engine: engine,
		disp:   d,
		input:  ti,
		log:    opts.Logger,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Entry Point
// ═══════════════════════════════════════════════════════════════════════════

// RunEditor opens engine in the interactive grid editor and blocks until the
// operator quits. Unsaved changes are written once more on the way out.
func RunEditor(ctx context.Context, engine *grid.Engine, opts EditorOptions) error {
	m := newEditorModel(ctx, engine, opts)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := final.(editorModel)
	if !ok || fm.opts.Save == nil {
		return nil
	}
	fm.engine.EditStop()
	if !fm.engine.Dirty() && !fm.retry {
		return nil
	}
	rows := fm.engine.Store().Values()
	if err := fm.opts.Save(ctx, rows); err != nil {
		return err
	}
	fm.engine.ResetDirty()
	fm.log.Info("saved on exit", "sheet", fm.opts.Title, "rows", len(rows))
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Bubble Tea Interface
// ═══════════════════════════════════════════════════════════════════════════

func (m editorModel) Init() tea.Cmd {
	if m.opts.Save != nil && m.opts.Autosave > 0 {
		return autosaveTick(m.opts.Autosave)
	}
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.ensureActiveVisible()
		return m, nil

	case animTickMsg:
		return m, m.updateAnimation()

	case statusClearMsg:
		if !m.statusUntil.IsZero() && time.Now().After(m.statusUntil) {
			m.statusMsg = ""
			m.statusUntil = time.Time{}
		}
		return m, nil

	case autosaveTickMsg:
		var cmd tea.Cmd
		if m.engine.Dirty() || m.retry {
			cmd = m.save()
		}
		return m, tea.Batch(cmd, autosaveTick(m.opts.Autosave))

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.retry = true
			m.log.Error("save failed", "sheet", m.opts.Title, "error", msg.err)
			return m, m.setStatus(fmt.Sprintf("save failed: %s", msg.err), true)
		}
		m.retry = false
		m.savedAt = msg.at
		m.log.Info("saved", "sheet", m.opts.Title, "rows", msg.rows)
		return m, m.setStatus(fmt.Sprintf("Saved %d rows", msg.rows), false)

	case tea.KeyMsg:
		m.cancelAnimation()
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	// Cursor blink and friends belong to the edit surface
	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res := m.disp.HandleKey(msg)

	var cmds []tea.Cmd
	if !res.Handled {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.engine.SetEditValue(m.input.Value())
		cmds = append(cmds, cmd)
	} else {
		cmds = append(cmds, m.afterOp(res))
	}

	cmds = append(cmds, m.syncInput())
	m.ensureActiveVisible()
	return m, tea.Batch(cmds...)
}

func (m editorModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m, m.startAnimation(m.scrollX, m.scrollY-wheelStep)
	case tea.MouseButtonWheelDown:
		return m, m.startAnimation(m.scrollX, m.scrollY+wheelStep)
	case tea.MouseButtonWheelLeft:
		return m, m.startAnimation(m.scrollX-wheelStep*3, m.scrollY)
	case tea.MouseButtonWheelRight:
		return m, m.startAnimation(m.scrollX+wheelStep*3, m.scrollY)
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	row, col, ok := m.cellAt(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	m.cancelAnimation()
	m.disp.HandlePointer(row, col, time.Now())
	cmd := m.syncInput()
	m.ensureActiveVisible()
	return m, cmd
}

// afterOp does the host's share of an operation: saving, quitting and
// telling the operator when something was refused.
func (m *editorModel) afterOp(res input.Result) tea.Cmd {
	switch res.Op {
	case input.OpSave:
		if m.saving && m.opts.Save != nil {
			return m.setStatus("Save in progress", false)
		}
		return m.save()
	case input.OpQuit:
		m.engine.EditStop()
		return tea.Quit
	case input.OpCopy:
		return m.setStatus("Copied: "+util.Truncate(m.engine.CellValue(m.engine.Active().Row, m.engine.Active().Col), 40), false)
	case input.OpUndo:
		if !res.OK {
			return m.setStatus("Nothing to undo", false)
		}
	case input.OpRedo:
		if !res.OK {
			return m.setStatus("Nothing to redo", false)
		}
	case input.OpDeleteRow:
		if !res.OK {
			return m.setStatus("Cannot delete the last row", true)
		}
	case input.OpEditStart, input.OpCut, input.OpPaste, input.OpErase, input.OpDuplicateAbove:
		if !res.OK {
			a := m.engine.Active()
			if m.engine.ReadOnly(a.Row, a.Col) {
				return m.setStatus("Cell is read-only", true)
			}
		}
	}
	return nil
}

// syncInput attaches the text input to the engine's edit session, or
// detaches it when the session has ended.
func (m *editorModel) syncInput() tea.Cmd {
	if !m.engine.Editing() {
		if m.editing {
			m.editing = false
			m.input.Blur()
			m.input.SetValue("")
		}
		return nil
	}

	a := m.engine.Active()
	if m.editing && m.editAt == a {
		return nil
	}
	m.editing = true
	m.editAt = a
	m.input.SetValue(m.engine.EditValue())
	m.input.CursorEnd()
	return m.input.Focus()
}

// ═══════════════════════════════════════════════════════════════════════════
// Saving
// ═══════════════════════════════════════════════════════════════════════════

func autosaveTick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return autosaveTickMsg(t)
	})
}

// save snapshots the rows here, on the UI goroutine, and writes them from a
// command. The dirty flag is cleared at snapshot time; edits made while the
// write is in flight set it again.
func (m *editorModel) save() tea.Cmd {
	if m.opts.Save == nil {
		return m.setStatus("Read-only view", true)
	}
	if m.saving {
		return nil
	}
	rows := m.engine.Store().Values()
	m.engine.ResetDirty()
	m.saving = true

	ctx, save := m.ctx, m.opts.Save
	return func() tea.Msg {
		err := save(ctx, rows)
		return savedMsg{at: time.Now(), rows: len(rows), err: err}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Status Message (flash notification)
// ═══════════════════════════════════════════════════════════════════════════

const statusDuration = 2 * time.Second

// setStatus sets a temporary status message that auto-clears.
func (m *editorModel) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = isErr
	m.statusUntil = time.Now().Add(statusDuration)
	return tea.Tick(statusDuration, func(t time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// Layout
// ═══════════════════════════════════════════════════════════════════════════

func (m editorModel) colWidth(col int) int {
	w := minColWidth
	if col < len(m.opts.Headers) {
		w = max(w, lipgloss.Width(m.opts.Headers[col]))
	}
	for r := 0; r < m.engine.RowCount(); r++ {
		w = max(w, lipgloss.Width(m.engine.CellValue(r, col)))
	}
	w = min(w, defaultColWidth)

	if m.editing && m.editAt.Col == col {
		w = max(w, min(lipgloss.Width(m.input.Value())+1, maxEditWidth))
	}
	return w
}

func (m editorModel) colStartX(col int) int {
	x := 0
	for i := 0; i < col && i < m.engine.ColumnCount(); i++ {
		x += m.colWidth(i) + 2 // +2 for column separator spacing
	}
	return x
}

func (m editorModel) colEndX(col int) int {
	return m.colStartX(col) + m.colWidth(col)
}

func (m editorModel) totalWidth() int {
	return m.colStartX(m.engine.ColumnCount())
}

func (m editorModel) viewportWidth() int {
	return max(m.width-2, 1)
}

func (m editorModel) visibleRowCount() int {
	return max(m.height-gridTop-gridBottom, 1)
}

func (m editorModel) maxScrollX() int {
	return max(m.totalWidth()-m.viewportWidth(), 0)
}

func (m editorModel) maxScrollY() int {
	return max(m.engine.RowCount()-m.visibleRowCount(), 0)
}

// cellAt maps a screen position to a grid cell.
func (m editorModel) cellAt(x, y int) (row, col int, ok bool) {
	vr := y - gridTop
	if vr < 0 || vr >= m.visibleRowCount() {
		return 0, 0, false
	}
	row = m.scrollY + vr
	if row >= m.engine.RowCount() {
		return 0, 0, false
	}

	vx := x + m.scrollX
	for c := 0; c < m.engine.ColumnCount(); c++ {
		start := m.colStartX(c)
		if vx >= start && vx < start+m.colWidth(c) {
			return row, c, true
		}
	}
	return 0, 0, false
}

func (m *editorModel) ensureActiveVisible() {
	if !m.ready {
		return
	}
	a := m.engine.Active()

	visible := m.visibleRowCount()
	if a.Row < m.scrollY {
		m.scrollY = a.Row
	} else if a.Row >= m.scrollY+visible {
		m.scrollY = a.Row - visible + 1
	}
	m.scrollY = min(max(m.scrollY, 0), m.maxScrollY())

	start, end := m.colStartX(a.Col), m.colEndX(a.Col)
	vw := m.viewportWidth()
	if start < m.scrollX {
		m.scrollX = start
	} else if end > m.scrollX+vw {
		if end-start <= vw {
			m.scrollX = end - vw
		} else {
			m.scrollX = start
		}
	}
	m.scrollX = min(max(m.scrollX, 0), m.maxScrollX())
}

// ═══════════════════════════════════════════════════════════════════════════
// Animation
// ═══════════════════════════════════════════════════════════════════════════

const (
	animationFrameInterval = 16 * time.Millisecond
	animationFraction      = 0.25
	animationSnapThreshold = 1
)

func animTick() tea.Cmd {
	return tea.Tick(animationFrameInterval, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

func (m *editorModel) startAnimation(targetX, targetY int) tea.Cmd {
	m.animTargetX = min(max(targetX, 0), m.maxScrollX())
	m.animTargetY = min(max(targetY, 0), m.maxScrollY())

	if m.animTargetX == m.scrollX && m.animTargetY == m.scrollY {
		m.animating = false
		return nil
	}
	if !m.animating {
		m.animating = true
		return animTick()
	}
	return nil
}

func (m *editorModel) updateAnimation() tea.Cmd {
	if !m.animating {
		return nil
	}

	dx := m.animTargetX - m.scrollX
	dy := m.animTargetY - m.scrollY
	if abs(dx) <= animationSnapThreshold && abs(dy) <= animationSnapThreshold {
		m.scrollX = m.animTargetX
		m.scrollY = m.animTargetY
		m.animating = false
		return nil
	}

	m.scrollX += animStep(dx)
	m.scrollY += animStep(dy)
	return animTick()
}

func animStep(remaining int) int {
	if remaining == 0 {
		return 0
	}
	d := int(float64(remaining) * animationFraction)
	if d == 0 {
		if remaining > 0 {
			return 1
		}
		return -1
	}
	return d
}

func (m *editorModel) cancelAnimation() {
	m.animating = false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ═══════════════════════════════════════════════════════════════════════════
// ANSI-aware Viewport Slicing
// ═══════════════════════════════════════════════════════════════════════════

// applyViewport extracts a horizontal slice of a string, handling ANSI escape
// codes properly. It returns the portion of the string from visual column
// startX with the given width.
func applyViewport(s string, startX, width int) string {
	if width <= 0 {
		return ""
	}
	if startX < 0 {
		startX = 0
	}

	var result strings.Builder
	result.Grow(width + 64)

	visualPos := 0
	outputChars := 0
	stylesApplied := false
	inEscape := false
	var escapeSeq strings.Builder
	var activeStyles []string

	runes := []rune(s)
	for i := 0; i < len(runes) && outputChars < width; i++ {
		r := runes[i]

		if r == '\x1b' && i+1 < len(runes) && runes[i+1] == '[' {
			inEscape = true
			escapeSeq.Reset()
			escapeSeq.WriteRune(r)
			continue
		}

		if inEscape {
			escapeSeq.WriteRune(r)
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
				seq := escapeSeq.String()
				if r == 'm' {
					if seq == "\x1b[0m" || seq == "\x1b[m" {
						activeStyles = nil
					} else {
						activeStyles = append(activeStyles, seq)
					}
				}
				if visualPos >= startX {
					result.WriteString(seq)
				}
			}
			continue
		}

		if visualPos >= startX {
			if !stylesApplied && len(activeStyles) > 0 {
				for _, style := range activeStyles {
					result.WriteString(style)
				}
				stylesApplied = true
			}
			result.WriteRune(r)
			outputChars++
		}
		visualPos++
	}

	if len(activeStyles) > 0 && outputChars > 0 {
		result.WriteString("\x1b[0m")
	}
	if outputChars < width {
		result.WriteString(strings.Repeat(" ", width-outputChars))
	}
	return result.String()
}

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

func (m editorModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder
	sb.WriteString(m.renderTitle())
	sb.WriteString("\n")
	sb.WriteString(m.renderGrid())
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m editorModel) renderTitle() string {
	a := m.engine.Active()
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent).
		Render(fmt.Sprintf("%s: %d rows, %d columns", m.opts.Title, m.engine.RowCount(), m.engine.ColumnCount()))

	parts := []string{title, styles.MutedMsg(fmt.Sprintf("R%dC%d", a.Row+1, a.Col+1))}
	if m.disp.Mode() == input.ModeEdit {
		parts = append(parts, styles.EditCell.Render(" EDIT "))
	}
	switch {
	case m.opts.Save == nil:
		parts = append(parts, styles.MutedMsg("read-only"))
	case m.engine.Dirty() || m.retry:
		parts = append(parts, styles.DirtyStyle.Render(styles.SymbolDirty+" modified"))
	case !m.savedAt.IsZero():
		parts = append(parts, styles.SavedStyle.Render("saved "+util.RelativeTime(m.savedAt)))
	}
	return strings.Join(parts, "  ")
}

func (m editorModel) renderGrid() string {
	var sb strings.Builder
	vw := m.viewportWidth()
	cols := m.engine.ColumnCount()
	active := m.engine.Active()

	widths := make([]int, cols)
	for c := range widths {
		widths[c] = m.colWidth(c)
	}

	// Header and separator
	var header, sep strings.Builder
	for c := 0; c < cols; c++ {
		name := ""
		if c < len(m.opts.Headers) {
			name = m.opts.Headers[c]
		}
		hs := styles.HeaderStyle
		ss := lipgloss.NewStyle().Foreground(styles.Muted)
		if c == active.Col {
			hs = hs.Foreground(styles.Accent)
			ss = ss.Foreground(styles.Accent)
		}
		header.WriteString(hs.Render(PadOrTruncate(name, widths[c])))
		header.WriteString("  ")
		sep.WriteString(ss.Render(strings.Repeat("─", widths[c])))
		sep.WriteString("  ")
	}
	sb.WriteString(applyViewport(header.String(), m.scrollX, vw))
	sb.WriteString("\n")
	sb.WriteString(applyViewport(sep.String(), m.scrollX, vw))
	sb.WriteString("\n")

	end := min(m.scrollY+m.visibleRowCount(), m.engine.RowCount())
	for r := m.scrollY; r < end; r++ {
		var line strings.Builder
		for c := 0; c < cols; c++ {
			line.WriteString(m.renderCell(r, c, widths[c], active))
			line.WriteString("  ")
		}
		sb.WriteString(applyViewport(line.String(), m.scrollX, vw))
		sb.WriteString("\n")
	}

	// Scroll indicators
	var indicators []string
	if m.scrollX > 0 {
		indicators = append(indicators, "◀")
	}
	if m.scrollX+vw < m.totalWidth() {
		indicators = append(indicators, "▶")
	}
	if m.scrollY > 0 {
		indicators = append(indicators, "▲")
	}
	if end < m.engine.RowCount() {
		indicators = append(indicators, "▼")
	}
	sb.WriteString(styles.MutedMsg(strings.Join(indicators, " ")))
	return sb.String()
}

func (m editorModel) renderCell(r, c, width int, active grid.Coord) string {
	here := grid.Coord{Row: r, Col: c}
	if m.editing && here == m.editAt {
		return styles.EditCell.Width(width).MaxWidth(width).Render(m.input.View())
	}

	val := PadOrTruncate(m.engine.CellValue(r, c), width)
	cell := m.engine.Store().Cell(r, c)
	switch {
	case here == active:
		return styles.ActiveCell.Render(val)
	case r == active.Row:
		return styles.ActiveRow.Render(val)
	case cell.Has(grid.FlagComputed):
		return styles.ComputedCell.Render(val)
	case m.engine.ReadOnly(r, c):
		return styles.ReadOnlyCell.Render(val)
	default:
		return styles.CellStyle.Render(val)
	}
}

func (m editorModel) renderFooter() string {
	if m.statusMsg != "" && time.Now().Before(m.statusUntil) {
		if m.statusErr {
			return styles.ErrorText(m.statusMsg)
		}
		return styles.SuccessMsg(m.statusMsg)
	}
	return HelpLine(m.disp.Keymap(), m.viewportWidth())
}

// HelpLine renders as many "key desc" pairs from km as fit in width.
func HelpLine(km input.Keymap, width int) string {
	var parts []string
	used := 0
	for _, b := range km.Bindings() {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		entry := h.Key + " " + h.Desc
		if used+len(entry)+2 > width {
			break
		}
		used += len(entry) + 2
		parts = append(parts, styles.HelpKey.Render(h.Key)+" "+styles.HelpValue.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
