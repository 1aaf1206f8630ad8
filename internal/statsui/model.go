// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/lotofacil/internal/model"
	"github.com/verte-zerg/lotofacil/internal/stats"
)

const (
	tabOverview = iota
	tabNumbers
	tabBalance
	tabCombinations
)

const (
	defaultTrendWindow = 10
	trendStep          = 5
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A9A5B"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	source stats.DrawSource
	cfg    model.StatsConfig

	report stats.Report
	errMsg string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	numberTable table.Model
	tableLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a stats UI model reading draws from source.
func NewModel(source stats.DrawSource, cfg model.StatsConfig) *Model {
	if cfg.TrendWindow < 1 {
		cfg.TrendWindow = defaultTrendWindow
	}
	m := &Model{
		source: source,
		cfg:    cfg,
		tabs:   []string{"Overview", "Numbers", "Balance", "Combinations"},
	}
	m.initInputs()
	m.numberTable = newNumberTable()
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.TrendWindow = nextTrendWindow(m.cfg.TrendWindow)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.TrendWindow = prevTrendWindow(m.cfg.TrendWindow)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "r":
			m.refreshReport()
			return m, nil
		case "g", "home":
			if m.activeTab == tabNumbers {
				m.numberTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabNumbers {
				m.numberTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabNumbers {
				var cmd tea.Cmd
				m.numberTable, cmd = m.numberTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Last draws: "),
		newFilterInput("Top combinations: "),
		newFilterInput("Trend window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 6
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[0].SetValue(optionalInt(m.cfg.Last))
	m.filterInputs[1].SetValue(optionalInt(m.cfg.TopN))
	m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.TrendWindow))
}

func optionalInt(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.setTableSize(m.width, bodyHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = ((m.activeTab+delta)%count + count) % count
	if m.activeTab == tabNumbers {
		m.numberTable.Focus()
	} else {
		m.numberTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	return headerStyle.Render(truncateLine(filterSummary(m.cfg, len(m.report.Records)), m.width))
}

func filterSummary(cfg model.StatsConfig, draws int) string {
	last := "all"
	if cfg.Last > 0 {
		last = strconv.Itoa(cfg.Last)
	}
	top := "default"
	if cfg.TopN > 0 {
		top = strconv.Itoa(cfg.TopN)
	}
	return fmt.Sprintf("Settings: last=%s  top=%s  window=%d  draws=%d", last, top, cfg.TrendWindow, draws)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabNumbers {
		if m.report.Analysis.Draws == 0 {
			return fitLines("No draws found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.numberTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.source, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	rows := numberRows(report.Analysis)
	m.numberTable.SetRows(rows)
	m.tableLayout.rowCount = len(rows)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 || m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabBalance].SetContent(renderBalance(m.report, m.cfg.TrendWindow, width))
	m.viewports[tabCombinations].SetContent(renderCombinations(m.report))
}

func renderOverview(r stats.Report, width int) string {
	if r.Analysis.Draws == 0 {
		return "No draws found."
	}
	cards := summaryCards(r)
	var row string
	if width < 80 {
		row = strings.Join(cards, "\n")
	} else {
		row = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	var buf bytes.Buffer
	if err := stats.RenderBars(&buf, "Frequency", stats.RankingBars(r.Analysis.FrequencyRanking), width); err != nil {
		return fmt.Sprintf("Failed to render frequency chart: %v", err)
	}
	return strings.TrimRight(row+"\n\n"+buf.String(), "\n")
}

func summaryCards(r stats.Report) []string {
	a := r.Analysis
	latest := r.Records[len(r.Records)-1]
	hot := a.FrequencyRanking[0]
	late := a.DelayRanking[0]
	return []string{
		metricCard("Draws", strconv.Itoa(a.Draws)),
		metricCard("Latest", fmt.Sprintf("#%d", latest.Contest)),
		metricCard("Avg Sum", fmt.Sprintf("%.1f", r.Sums.Mean)),
		metricCard("Hottest", fmt.Sprintf("%02d (%d)", hot.Number, hot.Score)),
		metricCard("Most Delayed", fmt.Sprintf("%02d (%d)", late.Number, late.Score)),
	}
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderBalance(r stats.Report, window, width int) string {
	if len(r.History) == 0 {
		return "No draws found."
	}
	var buf bytes.Buffer
	if err := stats.RenderBalance(&buf, r.History); err != nil {
		return fmt.Sprintf("Failed to render balance: %v", err)
	}
	if err := stats.RenderSumTrend(&buf, r.Sums, window, width); err != nil {
		return fmt.Sprintf("Failed to render sum trend: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderCombinations(r stats.Report) string {
	if len(r.History) == 0 {
		return "No draws found."
	}
	var buf bytes.Buffer
	if err := stats.RenderCombinations(&buf, r.Combinations); err != nil {
		return fmt.Sprintf("Failed to render combinations: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func numberColumns() []table.Column {
	return []table.Column{
		{Title: "Number", Width: 6},
		{Title: "Hits", Width: 6},
		{Title: "Rate", Width: 7},
		{Title: "Delay", Width: 6},
		{Title: "Max Delay", Width: 9},
	}
}

// numberRows lists every number in frequency-ranking order.
func numberRows(a stats.Analysis) []table.Row {
	rows := make([]table.Row, 0, len(a.FrequencyRanking))
	if a.Draws == 0 {
		return rows
	}
	for _, e := range a.FrequencyRanking {
		rows = append(rows, table.Row{
			fmt.Sprintf("%02d", e.Number),
			strconv.Itoa(e.Score),
			fmt.Sprintf("%.1f%%", float64(e.Score)/float64(a.Draws)*100),
			strconv.Itoa(a.Delay[e.Number]),
			strconv.Itoa(a.MaxDelay[e.Number]),
		})
	}
	return rows
}

func newNumberTable() table.Model {
	t := table.New(
		table.WithColumns(numberColumns()),
		table.WithHeight(1),
	)
	t.SetStyles(numberTableStyles())
	return t
}

func numberTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) setTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == viewportHeight {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.numberTable.SetWidth(width)
	m.numberTable.SetHeight(viewportHeight)
	// Header border lines are not counted by SetHeight.
	if extra := lipgloss.Height(m.numberTable.View()) - height; extra > 0 {
		m.numberTable.SetHeight(max(1, viewportHeight-extra))
	}
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseFilter(m.filterInputs[0].Value(), m.filterInputs[1].Value(), m.filterInputs[2].Value())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = ((idx % count) + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func parseFilter(lastInput, topInput, windowInput string) (model.StatsConfig, error) {
	last, err := parseOptional(lastInput)
	if err != nil {
		return model.StatsConfig{}, fmt.Errorf("invalid last value (use 0 or positive integer)")
	}
	top, err := parseOptional(topInput)
	if err != nil {
		return model.StatsConfig{}, fmt.Errorf("invalid top value (use 0 or positive integer)")
	}
	window := defaultTrendWindow
	if s := strings.TrimSpace(windowInput); s != "" {
		window, err = strconv.Atoi(s)
		if err != nil || window < 1 {
			return model.StatsConfig{}, fmt.Errorf("invalid trend window (use integer >= 1)")
		}
	}
	return model.StatsConfig{Last: last, TopN: top, TrendWindow: window}, nil
}

func parseOptional(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid value %q", input)
	}
	return n, nil
}

func nextTrendWindow(n int) int {
	if n < trendStep {
		return trendStep
	}
	return (n/trendStep + 1) * trendStep
}

func prevTrendWindow(n int) int {
	if n <= trendStep {
		return 1
	}
	if n%trendStep == 0 {
		return n - trendStep
	}
	return (n / trendStep) * trendStep
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
