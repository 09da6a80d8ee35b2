package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ytchat/internal/tui"
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}
}

func runChat() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := buildSession(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(tui.New(sess)).Run()
	return err
}
