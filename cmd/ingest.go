package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doppelbot/doppel/internal/persona"
)

func ingestCmd() *cobra.Command {
	var (
		exportPath   string
		authorID     string
		outPath      string
		nameOverride string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Build a persona profile from a Discord chat export",
		Long: "Reads a DiscordChatExporter JSON dump, pulls one author's messages, and\n" +
			"derives the style profile the bot replies with.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(exportPath)
			if err != nil {
				return fmt.Errorf("open chat export: %w", err)
			}
			defer f.Close()

			name, msgs, err := persona.ReadExport(f, authorID)
			if err != nil {
				return err
			}
			if nameOverride != "" {
				name = nameOverride
			}

			profile := persona.BuildProfile(name, msgs)
			if err := profile.Save(outPath); err != nil {
				return err
			}

			fmt.Printf("wrote %s: %d messages analyzed for %q\n", outPath, len(msgs), name)
			return nil
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "chat export JSON file (required)")
	cmd.Flags().StringVar(&authorID, "author", "", "user ID of the person to imitate (required)")
	cmd.Flags().StringVar(&outPath, "out", "persona.json", "output profile path")
	cmd.Flags().StringVar(&nameOverride, "name", "", "override the derived display name")
	cmd.MarkFlagRequired("export")
	cmd.MarkFlagRequired("author")

	return cmd
}
