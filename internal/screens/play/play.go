package play

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"quizcraft/internal/quiz"
	"quizcraft/internal/report"
	"quizcraft/internal/router"
	"quizcraft/internal/scheduled"
	"quizcraft/internal/screen"
	"quizcraft/internal/screens/summary"
	"quizcraft/internal/stars"
	"quizcraft/internal/stats"
	"quizcraft/internal/store"
	"quizcraft/internal/ui/components"
	"quizcraft/internal/ui/layout"
)

// PlayScreen drives one live quiz session: question display, answer
// selection, the 1-second clock, pause, save-for-later, and question
// reports. Exactly one PlayScreen is on the stack at a time, so the
// session receives ticks from a single timer.
type PlayScreen struct {
	session  *quiz.Session
	kv       store.KV
	agg      *stats.Aggregator
	registry *stars.Registry
	sched    *scheduled.Scheduler
	reporter *report.Reporter

	choices   components.MultiChoice
	reporting bool
	reportIn  components.TextInput
	flash     string
	errMsg    string
	finishing bool
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.EscInterceptor = (*PlayScreen)(nil)

// New creates a play screen over a started (or resumed) session.
func New(session *quiz.Session, kv store.KV, agg *stats.Aggregator, registry *stars.Registry, sched *scheduled.Scheduler, reporter *report.Reporter) *PlayScreen {
	p := &PlayScreen{
		session:  session,
		kv:       kv,
		agg:      agg,
		registry: registry,
		sched:    sched,
		reporter: reporter,
	}
	p.resetChoices()
	return p
}

func (p *PlayScreen) resetChoices() {
	q := p.session.Current()
	opts := make([]string, len(q.Choices))
	for i, c := range q.Choices {
		opts[i] = c.Text
	}
	p.choices = components.NewMultiChoice(opts)

	// A resumed session may come back mid-reveal.
	if chosen := p.session.SelectedChoice(); p.session.Revealed() && chosen != nil {
		p.choices.Reveal(p.choiceIndex(*chosen), p.correctIndex())
	}
}

func (p *PlayScreen) choiceIndex(text string) int {
	for i, c := range p.session.Current().Choices {
		if c.Text == text {
			return i
		}
	}
	return -1
}

func (p *PlayScreen) correctIndex() int {
	for i, c := range p.session.Current().Choices {
		if c.IsCorrect {
			return i
		}
	}
	return -1
}

func (p *PlayScreen) Init() tea.Cmd {
	return tickCmd()
}

func (p *PlayScreen) Title() string {
	return p.session.Folder
}

// InterceptEsc keeps Esc inside the screen; it toggles the pause overlay
// rather than abandoning the session.
func (p *PlayScreen) InterceptEsc() bool {
	return true
}

// HeaderStatus shows the live clock and score.
func (p *PlayScreen) HeaderStatus() string {
	return layout.FormatClock(p.session.Elapsed())
}

func (p *PlayScreen) KeyHints() []layout.KeyHint {
	switch {
	case p.reporting:
		return []layout.KeyHint{
			{Key: "Enter", Description: "File report"},
			{Key: "Esc", Description: "Cancel"},
		}
	case p.session.IsPaused():
		return []layout.KeyHint{
			{Key: "Esc/P", Description: "Resume"},
			{Key: "W", Description: "Save & exit"},
			{Key: "Q", Description: "Quit without saving"},
		}
	case p.session.Revealed():
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "R", Description: "Report question"},
			{Key: "Esc", Description: "Pause"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓/1-9", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
			{Key: "S", Description: "Skip"},
			{Key: "Esc", Description: "Pause"},
		}
	}
}

func (p *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return p.handleTick()

	case sessionDoneMsg:
		return p.handleDone(msg)

	case savedMsg:
		if msg.err != nil {
			p.errMsg = msg.err.Error()
			return p, nil
		}
		return p, func() tea.Msg { return router.PopScreenMsg{} }

	case reportFiledMsg:
		p.reporting = false
		if msg.err != nil {
			p.errMsg = msg.err.Error()
		} else {
			p.flash = "Report filed. Thanks!"
		}
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	if p.reporting {
		var cmd tea.Cmd
		p.reportIn, cmd = p.reportIn.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *PlayScreen) handleTick() (screen.Screen, tea.Cmd) {
	if p.session.IsCompleted() || p.finishing {
		return p, nil
	}
	p.session.Tick()
	return p, tickCmd()
}

func (p *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	p.flash = ""

	if p.errMsg != "" {
		p.errMsg = ""
		return p, nil
	}
	if p.finishing {
		return p, nil
	}

	if p.reporting {
		switch key {
		case "esc":
			p.reporting = false
			return p, nil
		case "enter":
			return p, p.fileReport()
		}
		var cmd tea.Cmd
		p.reportIn, cmd = p.reportIn.Update(msg)
		return p, cmd
	}

	if p.session.IsPaused() {
		switch key {
		case "esc", "p":
			_ = p.session.Resume()
		case "w":
			return p, p.saveForLater()
		case "q":
			return p, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return p, nil
	}

	switch key {
	case "esc", "p":
		_ = p.session.Pause()
		return p, nil
	case "w":
		return p, p.saveForLater()
	case "r":
		p.reporting = true
		p.reportIn = components.NewTextInput("What's wrong with this question?", 120)
		return p, p.reportIn.Init()
	}

	if p.session.Revealed() {
		switch key {
		case "enter", "n", " ":
			return p.advance()
		}
		return p, nil
	}

	switch key {
	case "enter":
		return p.selectAnswer()
	case "s":
		return p.skip()
	}

	var cmd tea.Cmd
	p.choices, cmd = p.choices.Update(msg)
	return p, cmd
}

func (p *PlayScreen) selectAnswer() (screen.Screen, tea.Cmd) {
	q := p.session.Current()
	if p.choices.Selected < 0 || p.choices.Selected >= len(q.Choices) {
		return p, nil
	}
	chosen := q.Choices[p.choices.Selected].Text

	if _, err := p.session.SelectAnswer(chosen); err != nil {
		p.errMsg = err.Error()
		return p, nil
	}
	p.choices.Reveal(p.choices.Selected, p.correctIndex())
	return p, nil
}

func (p *PlayScreen) advance() (screen.Screen, tea.Cmd) {
	done, err := p.session.NextQuestion()
	if err != nil {
		p.errMsg = err.Error()
		return p, nil
	}
	if done {
		return p.finish()
	}
	p.resetChoices()
	return p, nil
}

func (p *PlayScreen) skip() (screen.Screen, tea.Cmd) {
	done, err := p.session.Skip()
	if err != nil {
		p.errMsg = err.Error()
		return p, nil
	}
	if done {
		return p.finish()
	}
	p.resetChoices()
	return p, nil
}

// finish runs completion bookkeeping off the update loop: statistics,
// scheduled-quiz tracking, and cleanup of any save for this session.
func (p *PlayScreen) finish() (screen.Screen, tea.Cmd) {
	p.finishing = true
	session := p.session
	agg := p.agg
	sched := p.sched
	kv := p.kv

	return p, func() tea.Msg {
		ctx := context.Background()

		result, err := session.Result()
		if err != nil {
			return sessionDoneMsg{statsErr: err}
		}

		statsErr := agg.Apply(ctx, result)

		if session.QuizID != "" {
			if err := sched.MarkCompleted(ctx, session.QuizID); err != nil && statsErr == nil {
				statsErr = err
			}
		}
		if session.ID != "" {
			_ = quiz.DeleteSaved(ctx, kv, session.ID)
		}

		return sessionDoneMsg{result: result, statsErr: statsErr}
	}
}

func (p *PlayScreen) handleDone(msg sessionDoneMsg) (screen.Screen, tea.Cmd) {
	return p, func() tea.Msg {
		return router.ReplaceScreenMsg{
			Screen: summary.New(msg.result, msg.statsErr, p.registry),
		}
	}
}

func (p *PlayScreen) saveForLater() tea.Cmd {
	session := p.session
	kv := p.kv
	return func() tea.Msg {
		id, err := session.SaveForLater(context.Background(), kv)
		return savedMsg{id: id, err: err}
	}
}

func (p *PlayScreen) fileReport() tea.Cmd {
	reason := p.reportIn.Value()
	q := p.session.Current()
	reporter := p.reporter
	return func() tea.Msg {
		_, err := reporter.File(context.Background(), q, reason)
		return reportFiledMsg{err: err}
	}
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
