package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <url-or-id> <question...>",
		Short: "Fetch a transcript and answer a single question",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sess, err := buildSession(cfg)
			if err != nil {
				return err
			}
			result, err := sess.LoadVideo(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded %s: %d characters, %d chunks\n", result.VideoID, result.Characters, result.ChunkCount)
			text, err := sess.Ask(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
