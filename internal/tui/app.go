// Package tui provides the interactive Bubble Tea dashboard for smsledger.
package tui

import (
	"fmt"
	"strings"
	"time"

	"smsledger/internal/pipeline"
	"smsledger/internal/source"
	"smsledger/internal/store"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the pipeline run finishes.
type DataLoadedMsg struct {
	Result   *pipeline.Result
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports message extraction progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background refresh completes.
type RefreshDataMsg struct {
	Result   *pipeline.Result
	Err      error
	LoadTime time.Duration
}

var tabs = []string{"Overview", "Monthly", "Weekly", "Transactions"}

// App is the root Bubble Tea model.
type App struct {
	// Data source
	p           *pipeline.Pipeline
	inputPath   string // CSV dump; empty means archive
	archivePath string
	month       time.Time

	// Data
	result   *pipeline.Result
	loadErr  error
	loaded   bool
	loadTime time.Duration

	refreshing  bool
	lastRefresh time.Time

	// UI state
	width     int
	height    int
	activeTab int
	txCursor  int

	// Loading progress from the loader goroutine
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 120
)

// NewApp creates a new TUI app model.
func NewApp(p *pipeline.Pipeline, inputPath, archivePath string, month time.Time) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3AA99F"))

	return App{
		p:           p,
		inputPath:   inputPath,
		archivePath: archivePath,
		month:       month,
		spinner:     sp,
		loadSub:     make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadDataCmd(a.p, a.inputPath, a.archivePath, a.month, a.loadSub),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" || key == "q" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		switch key {
		case "o":
			a.activeTab = 0
		case "m":
			a.activeTab = 1
		case "w":
			a.activeTab = 2
		case "t":
			a.activeTab = 3
		case "left", "h":
			a.activeTab = (a.activeTab - 1 + len(tabs)) % len(tabs)
		case "right", "l":
			a.activeTab = (a.activeTab + 1) % len(tabs)
		case "j", "down":
			if a.activeTab == 3 && a.result != nil && a.txCursor < len(a.result.Transactions)-1 {
				a.txCursor++
			}
		case "k", "up":
			if a.activeTab == 3 && a.txCursor > 0 {
				a.txCursor--
			}
		case "g":
			a.txCursor = 0
		case "G":
			if a.result != nil && len(a.result.Transactions) > 0 {
				a.txCursor = len(a.result.Transactions) - 1
			}
		case "r":
			if !a.refreshing {
				a.refreshing = true
				return a, refreshDataCmd(a.p, a.inputPath, a.archivePath, a.month)
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.result = msg.Result
		a.loadErr = msg.Err
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		if msg.Err == nil && msg.Result != nil {
			a.result = msg.Result
			a.loadTime = msg.LoadTime
			if a.txCursor >= len(msg.Result.Transactions) {
				a.txCursor = len(msg.Result.Transactions) - 1
			}
			if a.txCursor < 0 {
				a.txCursor = 0
			}
		}
		return a, nil
	}

	return a, nil
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return fmt.Sprintf(
			"\n  Terminal too narrow (%d cols)\n\n  smsledger needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.loadErr != nil {
		return a.viewError()
	}

	return a.viewMain()
}

func (a App) viewLoading() string {
	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ smsledger"))
	b.WriteString(subtitleStyle.Render(" · SMS Budget Tracker"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Extracting transactions\n\n"))
		b.WriteString(progressBar(pct, 40))
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("  %d / %d", a.progress, a.progressMax)))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Reading messages..."))
	}

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewError() string {
	var b strings.Builder
	b.WriteString(errStyle.Render("✗ Failed to build report"))
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render(a.loadErr.Error()))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Press q to quit, r to retry"))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewMain() string {
	cw := a.contentWidth()

	header := renderTabBar(a.activeTab, a.width)

	var content string
	switch a.activeTab {
	case 0:
		content = a.renderOverviewTab(cw)
	case 1:
		content = a.renderMonthlyTab(cw)
	case 2:
		content = a.renderWeeklyTab(cw)
	case 3:
		content = a.renderTransactionsTab(cw, a.height-4)
	}

	status := a.renderStatusBar()

	contentH := a.height - lipgloss.Height(header) - lipgloss.Height(status)
	if contentH < 3 {
		contentH = 3
	}
	content = padHeight(truncateHeight(content, contentH), contentH)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, status)
}

func (a App) renderStatusBar() string {
	left := dimStyle.Render(fmt.Sprintf(" %s · %d txns · loaded in %.1fs",
		a.result.TargetMonth.Format("2006-01"),
		len(a.result.Transactions),
		a.loadTime.Seconds()))

	right := ""
	if a.refreshing {
		right = subtitleStyle.Render("refreshing… ")
	}
	right += dimStyle.Render("o/m/w/t tabs · j/k move · r refresh · q quit ")

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// loadMessages reads from the CSV dump when set, otherwise the archive.
func loadMessages(inputPath, archivePath string) ([]source.RawMessage, error) {
	if inputPath != "" {
		return source.ReadDumpFile(inputPath)
	}
	archive, err := store.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = archive.Close() }()
	return archive.LoadMessages()
}

// loadDataCmd runs the pipeline in a background goroutine, streaming
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(p *pipeline.Pipeline, inputPath, archivePath string, month time.Time, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so extraction workers aren't stalled.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			msgs, err := loadMessages(inputPath, archivePath)
			if err != nil {
				sub <- DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
				return
			}

			result, err := p.Run(msgs, month, progressFn)
			sub <- DataLoadedMsg{
				Result:   result,
				Err:      err,
				LoadTime: time.Since(start),
			}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd re-runs the pipeline in the background without progress UI.
func refreshDataCmd(p *pipeline.Pipeline, inputPath, archivePath string, month time.Time) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		msgs, err := loadMessages(inputPath, archivePath)
		if err != nil {
			return RefreshDataMsg{Err: err, LoadTime: time.Since(start)}
		}

		result, err := p.Run(msgs, month, nil)
		return RefreshDataMsg{
			Result:   result,
			Err:      err,
			LoadTime: time.Since(start),
		}
	}
}

// Run starts the TUI program.
func Run(p *pipeline.Pipeline, inputPath, archivePath string, month time.Time) error {
	prog := tea.NewProgram(NewApp(p, inputPath, archivePath, month), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
