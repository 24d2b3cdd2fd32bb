package commands

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/calmops/folio/internal/tui"
	"github.com/calmops/folio/internal/tui/notify"
)

type ReadCmd struct {
	flags *Flags
	app   *App
}

// NewReadCmd creates the default command: open one or more books.
func NewReadCmd(flags *Flags, app *App) *ReadCmd {
	return &ReadCmd{flags: flags, app: app}
}

// Run executes the reader. Exported for use as default action.
func (cmd *ReadCmd) Run(ctx context.Context, c *cli.Command) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("no books given. Usage: folio <book.md> [book2.md ...]")
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("folio needs an interactive terminal")
	}

	// Every notification also lands in the log file, so missed toasts
	// can still be found after the session.
	bus := notify.NewBus()
	bus.Subscribe(func(n notify.Notification) {
		log.Info().
			Str("level", string(n.Level)).
			Str("message", n.Message).
			Msg("notification")
	})

	model := tui.New(tui.Options{
		Config:  cmd.app.Config,
		History: cmd.app.History,
		Bus:     bus,
		Paths:   paths,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run reader: %w", err)
	}

	m, ok := final.(tui.Model)
	if !ok {
		return nil
	}
	if err := m.Err(); err != nil {
		return err
	}

	// Persist every open session's position in one transaction, the
	// same way an interrupted read would want it.
	if items := m.FinalHistories(); len(items) > 0 {
		if err := cmd.app.History.SaveAll(ctx, items); err != nil {
			return fmt.Errorf("save reading history: %w", err)
		}
	}
	return nil
}
