// Package tui holds the interactive terminal views.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user quits a view before it finishes.
var ErrCancelled = errors.New("cancelled")

type loadDoneMsg struct {
	err error
}

type loaderModel struct {
	label   string
	cancel  context.CancelFunc
	spinner spinner.Model
	err     error
	done    bool
}

func newLoaderModel(label string, cancel context.CancelFunc) loaderModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	return loaderModel{
		label:   label,
		cancel:  cancel,
		spinner: s,
	}
}

func (m loaderModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s...\n", m.spinner.View(), m.label)
}

// RunLoader shows a spinner labelled label while work runs. It renders inline
// (no alt screen). Ctrl+C cancels the context passed to work. RunLoader
// returns only after work has returned, so work may write to variables the
// caller reads afterwards.
func RunLoader(ctx context.Context, label string, work func(ctx context.Context) error) error {
	return runLoader(ctx, label, work)
}

func runLoader(ctx context.Context, label string, work func(ctx context.Context) error, opts ...tea.ProgramOption) error {
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newLoaderModel(label, cancel), append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)

	workErr := make(chan error, 1)
	go func() {
		err := work(workCtx)
		workErr <- err
		p.Send(loadDoneMsg{err: err})
	}()

	result, runErr := p.Run()
	cancel()
	err := <-workErr

	if runErr != nil {
		return runErr
	}
	if final, ok := result.(loaderModel); ok && final.err != nil {
		return final.err
	}
	return err
}
