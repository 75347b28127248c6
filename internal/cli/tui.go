package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/reftree/pkg/analytics"
	"github.com/matzehuels/reftree/pkg/forest"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listDetailStyle = lipgloss.NewStyle().Foreground(colorGray).PaddingLeft(2)
)

// =============================================================================
// RankingModel - Interactive ranking browser
// =============================================================================

// RankingModel is the bubbletea model behind "top --browse". It pages through
// a ranked list and shows the selected user's referrer and direct referrals.
type RankingModel struct {
	Title       string
	ScoreHeader string
	Rows        []analytics.UserWithScore
	Cursor      int
	Offset      int
	Height      int

	forest *forest.Forest
}

// NewRankingModel creates a browser over rows. f may be nil, in which case
// the detail line is omitted.
func NewRankingModel(title, scoreHeader string, rows []analytics.UserWithScore, f *forest.Forest) RankingModel {
	return RankingModel{
		Title:       title,
		ScoreHeader: scoreHeader,
		Rows:        rows,
		Height:      15,
		forest:      f,
	}
}

func (m RankingModel) Init() tea.Cmd {
	return nil
}

func (m RankingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown", " ":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Rows))
		case "end", "G":
			m.move(len(m.Rows))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped to the list, and scrolls so the
// cursor stays visible.
func (m *RankingModel) move(delta int) {
	if len(m.Rows) == 0 {
		m.Cursor, m.Offset = 0, 0
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Rows)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m RankingModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  pgup/pgdn page  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  (no users)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		r := m.Rows[i]
		rows = append(rows, []string{cursor, strconv.Itoa(i + 1), r.ID, strconv.Itoa(r.Score)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "User", m.ScoreHeader).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 1 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if detail := m.detail(); detail != "" {
		b.WriteString(listDetailStyle.Render(detail))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func (m RankingModel) detail() string {
	if m.forest == nil || len(m.Rows) == 0 {
		return ""
	}
	id := m.Rows[m.Cursor].ID
	d, err := m.forest.UserDetails(id)
	if err != nil {
		return ""
	}
	ref := "none"
	if d.HasReferrer() {
		ref = d.ReferrerID
	}
	direct, _ := m.forest.DirectReferrals(id)
	return fmt.Sprintf("referrer: %s · direct referrals: %d", ref, len(direct))
}

// rankScores orders a score map by score descending, then ID ascending.
func rankScores(scores map[string]int) []analytics.UserWithScore {
	rows := make([]analytics.UserWithScore, 0, len(scores))
	for id, s := range scores {
		rows = append(rows, analytics.UserWithScore{ID: id, Score: s})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}
