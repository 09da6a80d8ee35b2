package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"ytchat/internal/config"
)

var cfgFile string

// NewRootCommand creates the root command. Running it without a
// subcommand starts the interactive chat session.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ytchat",
		Short: "Chat with YouTube video transcripts",
		Long: `ytchat fetches the caption transcript of a YouTube video and answers
free-form questions about it with a language model, optionally using
retrieval-augmented generation over chunked transcript text.

Requires an API key in the environment (GOOGLE_API_KEY by default,
loaded from .env if present).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(newChatCommand())
	rootCmd.AddCommand(newAskCommand())
	rootCmd.AddCommand(newVersionCommand(version))

	return rootCmd
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			if version == "" {
				version = "dev"
			}
			fmt.Printf("ytchat %s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func loadConfig() (*config.AppConfig, error) {
	if cfgFile == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(cfgFile)
}
