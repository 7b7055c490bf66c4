package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	notesx "github.com/tanpawarit/Chative-Shop-Assistant/agent/notes"
	configx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/config"
)

var notesLimit int

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List research notes from the Postgres archive",
	Args:  cobra.NoArgs,
	RunE:  runNotes,
}

func init() {
	notesCmd.Flags().IntVarP(&notesLimit, "limit", "n", 10, "number of notes to show")
}

func runNotes(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	notesCfg, err := configx.New[notesx.Config]("NOTES")
	if err != nil {
		return err
	}
	if notesCfg.DatabaseDSN == "" {
		return errors.New("NOTES_DATABASE_DSN is not set")
	}

	archive, err := notesx.OpenPostgresArchive(ctx, notesCfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer archive.Close()

	notes, err := archive.Recent(ctx, notesLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(notes) == 0 {
		fmt.Fprintln(out, "No research notes archived yet.")
		return nil
	}
	for _, n := range notes {
		fmt.Fprintf(out, "%s  %s\n", n.CreatedAt.Local().Format("2006-01-02 15:04"), n.Topic)
		if n.FilePath != "" {
			fmt.Fprintf(out, "    file: %s\n", n.FilePath)
		}
		if len(n.Sources) > 0 {
			fmt.Fprintf(out, "    sources: %s\n", strings.Join(n.Sources, ", "))
		}
	}
	return nil
}
