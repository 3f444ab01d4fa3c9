package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studyrag/internal/domain"
)

// StudyPort is the TUI-facing subset of the study service.
type StudyPort interface {
	RetrieveAndCompose(query string, method domain.Method, k int, minScore float64) (domain.Answer, error)
	Stats() domain.Stats
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service  StudyPort
	input    textinput.Model
	viewport viewport.Model
	answer   domain.Answer
	summary  string
	status   string
	method   domain.Method
	topK     int
	minScore float64
	cursor   int
	ready    bool
}

// New creates a new TUI model instance. The summary is the corpus
// overview produced at ingestion.
func New(service StudyPort, summary string, method domain.Method, topK int, minScore float64) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	stats := service.Stats()
	status := fmt.Sprintf("Indexed %d documents, %d chunks. Tab switches method.", stats.Documents, stats.Chunks)
	return Model{
		service:  service,
		input:    ti,
		viewport: vp,
		summary:  summary,
		status:   status,
		method:   method,
		topK:     topK,
		minScore: minScore,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				answer, err := m.service.RetrieveAndCompose(q, m.method, m.topK, m.minScore)
				switch {
				case err != nil:
					m.status = "Error: " + err.Error()
					m.answer = domain.Answer{}
				case !answer.EvidenceFound:
					m.status = fmt.Sprintf("No sufficient evidence found for %q in the indexed sources.", q)
					m.answer = answer
				default:
					m.status = fmt.Sprintf("Evidence for %q via %s", q, answer.Method)
					m.answer = answer
					m.cursor = 0
				}
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "tab":
			m.method = nextMethod(m.method)
			m.status = fmt.Sprintf("Retrieval method: %s", m.method)
			return m, nil
		case "down":
			if len(m.answer.Citations) > 0 {
				m.cursor = (m.cursor + 1) % len(m.answer.Citations)
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "up":
			if len(m.answer.Citations) > 0 {
				m.cursor = (m.cursor - 1 + len(m.answer.Citations)) % len(m.answer.Citations)
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current evidence.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Study Assistant — evidence-grounded retrieval")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if m.answer.Query == "" {
		return "No results yet."
	}
	if !m.answer.EvidenceFound {
		return "I couldn't find sufficient evidence in the indexed sources to answer this question."
	}
	var b strings.Builder
	if len(m.answer.KeyPoints) > 0 {
		b.WriteString(keyPointHeaderStyle.Render("Answer (evidence-grounded):"))
		b.WriteString("\n")
		for _, kp := range m.answer.KeyPoints {
			b.WriteString("• " + kp.Sentence + "\n  " + citationStyle.Render(kp.Citation.Label()) + "\n")
		}
		b.WriteString("\n")
	}
	c := m.answer.Citations[m.cursor]
	title := fmt.Sprintf("Evidence %d/%d  score=%.3f  method=%s  %s",
		m.cursor+1, len(m.answer.Citations), c.Score, c.Method, c.Label())
	b.WriteString(title + "\n\n")
	b.WriteString(highlightBestSentence(c.Text, m.answer.Query))
	return b.String()
}

func nextMethod(m domain.Method) domain.Method {
	switch m {
	case domain.MethodAuto:
		return domain.MethodSparse
	case domain.MethodSparse:
		return domain.MethodDense
	default:
		return domain.MethodAuto
	}
}

var (
	resultBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	keyPointHeaderStyle = lipgloss.NewStyle().Bold(true)
	citationStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	unicodeWordRe       = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe          = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
