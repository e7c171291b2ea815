package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rasulshaikhdev/techgear-hub/internal/notify"
)

// Run drives m until the user quits or ctx is canceled.
func Run(ctx context.Context, m *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)

	m.send = p.Send
	// Send blocks until the program reads, and Notify runs inside Update.
	m.session.Toast.OnChange(func(n notify.Notification) { go p.Send(toastMsg(n)) })
	defer func() {
		m.session.Toast.OnChange(nil)
		m.Close()
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
