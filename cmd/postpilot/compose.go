package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/postpilot/cli/internal/generate"
	"github.com/postpilot/cli/internal/news"
	"github.com/postpilot/cli/internal/poster"
	"github.com/postpilot/cli/internal/wiki"
)

var (
	composeTopic   string
	composeNews    bool
	composeWiki    bool
	composeDoc     string
	composeStyle   string
	composePublish bool
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Generate a social post about a topic",
	Long: `Generates a short social post about a topic, optionally grounded in
recent news headlines, Wikipedia facts, or an ingested document.`,
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().StringVarP(&composeTopic, "topic", "t", "", "Topic to post about")
	composeCmd.Flags().BoolVar(&composeNews, "news", false, "Ground the post in a recent headline")
	composeCmd.Flags().BoolVar(&composeWiki, "wiki", false, "Ground the post in a Wikipedia fact")
	composeCmd.Flags().StringVar(&composeDoc, "doc", "", "Ground the post in an ingested document (document id)")
	composeCmd.Flags().StringVar(&composeStyle, "style", string(generate.StyleInformative), "Post style: Informative, Engaging, Professional or Conversational")
	composeCmd.Flags().BoolVar(&composePublish, "publish", false, "Publish the generated post")
	_ = composeCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(composeCmd)
}

func runCompose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	gen := generate.NewGenerator(generate.Config{
		APIKey:      os.Getenv(a.cfg.Chat.APIKeyEnv),
		BaseURL:     a.cfg.Chat.BaseURL,
		Model:       a.cfg.Chat.Model,
		Temperature: a.cfg.Chat.Temperature,
	}, a.log)

	var post string
	var err error

	if composeDoc != "" {
		docID, perr := uuid.Parse(composeDoc)
		if perr != nil {
			return fmt.Errorf("invalid document id %q: %w", composeDoc, perr)
		}

		database, store, serr := a.openStore(ctx)
		if serr != nil {
			return serr
		}
		defer database.Close()

		docContext := a.retriever(store).Context(ctx, docID, composeTopic, a.cfg.Processing.MaxChunks)
		post, err = gen.ComposeFromDocument(ctx, composeTopic, docContext, generate.Style(composeStyle))
	} else {
		var newsContext, wikiContext string
		if composeNews {
			client := news.NewClient(a.cfg.News.BaseURL, os.Getenv(a.cfg.News.APIKeyEnv), a.cfg.News.Count, nil, a.log)
			newsContext = client.Context(ctx, composeTopic)
		}
		if composeWiki {
			client := wiki.NewClient(a.cfg.Wiki.BaseURL, a.cfg.Wiki.Count, nil, a.log)
			wikiContext = client.Context(ctx, composeTopic)
		}
		post, err = gen.Compose(ctx, composeTopic, newsContext, wikiContext)
	}
	if err != nil {
		a.log.Error("post generation failed", zap.String("topic", composeTopic), zap.Error(err))
		fmt.Printf("Unable to generate a post about %s. Please try again.\n", composeTopic)
		return nil
	}

	fmt.Println(post)

	if composePublish {
		client := poster.NewClient(a.cfg.Platform.BaseURL, os.Getenv(a.cfg.Platform.AccessTokenEnv), a.log)
		id, err := client.Publish(ctx, post)
		if err != nil {
			return fmt.Errorf("failed to publish post: %w", err)
		}
		fmt.Printf("Published as post %s\n", id)
	}
	return nil
}
