package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/postpilot/cli/internal/news"
	"github.com/postpilot/cli/internal/wiki"
)

var newsCmd = &cobra.Command{
	Use:   "news [topic]",
	Short: "Show the news context that would ground a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := news.NewClient(a.cfg.News.BaseURL, os.Getenv(a.cfg.News.APIKeyEnv), a.cfg.News.Count, nil, a.log)
		fmt.Print(client.Context(cmd.Context(), args[0]))
		return nil
	},
}

var wikiCmd = &cobra.Command{
	Use:   "wiki [topic]",
	Short: "Show the Wikipedia context that would ground a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := wiki.NewClient(a.cfg.Wiki.BaseURL, a.cfg.Wiki.Count, nil, a.log)
		fmt.Print(client.Context(cmd.Context(), args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(wikiCmd)
}
