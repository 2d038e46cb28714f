package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/postpilot/cli/internal/poster"
)

var postCmd = &cobra.Command{
	Use:   "post [text]",
	Short: "Publish a post as-is",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPost,
}

func init() {
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, args []string) error {
	client := poster.NewClient(a.cfg.Platform.BaseURL, os.Getenv(a.cfg.Platform.AccessTokenEnv), a.log)

	id, err := client.Publish(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to publish post: %w", err)
	}

	fmt.Printf("Published as post %s\n", id)
	return nil
}
