package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

type HistoryCmd struct {
	flags *Flags
	app   *App

	// flags
	limit int
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags, app *App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: app}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "List recently read books",
		UsageText: "folio history [--limit N]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Usage:       "maximum number of rows",
				Value:       20,
				Destination: &cmd.limit,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	items, err := cmd.app.History.Recent(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, "No reading history yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tAUTHOR\tPROGRESS\tLAST READ\tPATH")
	for _, h := range items {
		lastRead := "-"
		if !h.LastRead.IsZero() {
			lastRead = h.LastRead.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\t%s\n",
			h.Title, h.Author, int(h.ReadingProgress*100), lastRead, h.Filepath)
	}
	return w.Flush()
}
