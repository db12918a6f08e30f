package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/social-wizard/internal/app"
	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/internal/media"
	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/source/web"
	"github.com/social-wizard/internal/storage"
	"github.com/social-wizard/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	repo    storage.Repository
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "social-wizard",
		Short: "Manage the post corpus and generate LinkedIn posts",
		Long: `Operator CLI for social-wizard: add source content, brand voice
examples and memory notes, manage trending topics and generate posts.`,
		PersistentPreRunE:  initializeApp,
		PersistentPostRunE: closeApp,
		SilenceUsage:       true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(contentCmd())
	rootCmd.AddCommand(brandCmd())
	rootCmd.AddCommand(memoryCmd())
	rootCmd.AddCommand(trendingCmd())
	rootCmd.AddCommand(generateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initializeApp(cmd *cobra.Command, args []string) error {
	var err error

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log = app.NewLogger(cfg.Logging)

	repo, err = app.OpenRepository(context.Background(), cfg.Database, log)
	return err
}

func closeApp(cmd *cobra.Command, args []string) error {
	if repo != nil {
		return repo.Close()
	}
	return nil
}

// ============ CORPUS COMMANDS ============

func contentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Source content commands",
	}

	cmd.AddCommand(contentAddCmd())
	cmd.AddCommand(contentScrapeCmd())
	cmd.AddCommand(listCmd(models.KindContent, "List source content"))
	return cmd
}

func contentAddCmd() *cobra.Command {
	var contentType string
	var file string

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a source content document",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(args, file)
			if err != nil {
				return err
			}
			return addDocument(models.NewContent(models.ContentType(contentType), body, ""))
		},
	}

	cmd.Flags().StringVar(&contentType, "type", string(models.ContentTypeManual), "Content type: manual or scraped")
	cmd.Flags().StringVar(&file, "file", "", "Read the body from a file (- for stdin)")
	return cmd
}

func contentScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <url>",
		Short: "Scrape a web page into the content pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			fetcher := web.NewFetcher(cfg.Scraper, app.NewLimiter(cfg.RateLimit), log)
			doc, err := fetcher.Fetch(ctx, args[0])
			if err != nil {
				return err
			}
			if err := repo.Add(ctx, doc); err != nil {
				return err
			}

			fmt.Printf("\n=== Scraped ===\n")
			fmt.Printf("ID:      %s\n", doc.ID)
			fmt.Printf("Source:  %s\n", doc.SourceURL)
			fmt.Printf("\n--- Preview ---\n%s\n", truncateStr(doc.Body, 300))
			return nil
		},
	}
}

func brandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brand",
		Short: "Brand voice example commands",
	}

	cmd.AddCommand(bodyAddCmd("Add a brand voice example post", models.NewBrandExample))
	cmd.AddCommand(listCmd(models.KindBrand, "List brand voice examples"))
	return cmd
}

func memoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Memory note commands",
	}

	cmd.AddCommand(bodyAddCmd("Add a memory note", models.NewMemoryNote))
	cmd.AddCommand(listCmd(models.KindMemory, "List memory notes"))
	return cmd
}

func bodyAddCmd(short string, build func(string) *models.Document) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(args, file)
			if err != nil {
				return err
			}
			return addDocument(build(body))
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the body from a file (- for stdin)")
	return cmd
}

func listCmd(kind models.Kind, short string) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := repo.List(context.Background(), kind)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== %s (%d) ===\n\n", strings.ToUpper(string(kind)), len(docs))
			for _, d := range docs {
				fmt.Printf("[%s] %s", d.ID, d.CreatedAt.Local().Format(time.DateTime))
				if d.Type != "" {
					fmt.Printf(" | %s", d.Type)
				}
				if d.SourceURL != "" {
					fmt.Printf(" | %s", d.SourceURL)
				}
				fmt.Println()

				body := d.Body
				if !full {
					body = truncateStr(strings.Join(strings.Fields(body), " "), 120)
				}
				fmt.Printf("    %s\n\n", body)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print whole bodies")
	return cmd
}

func addDocument(doc *models.Document) error {
	if err := repo.Add(context.Background(), doc); err != nil {
		return err
	}
	fmt.Printf("Added %s document %s\n", doc.Kind, doc.ID)
	return nil
}

// ============ TRENDING COMMANDS ============

func trendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Trending topics commands",
	}

	cmd.AddCommand(trendingSetCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the trending topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			topics, err := repo.GetTrending(context.Background())
			if err != nil {
				return err
			}
			if strings.TrimSpace(topics) == "" {
				fmt.Println("No trending topics set.")
				return nil
			}
			fmt.Println(topics)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the trending topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := repo.ClearTrending(context.Background()); err != nil {
				return err
			}
			fmt.Println("Trending topics cleared.")
			return nil
		},
	})
	cmd.AddCommand(trendingRefreshCmd())
	return cmd
}

func trendingSetCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set [text]",
		Short: "Replace the trending topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			topics, err := readBody(args, file)
			if err != nil {
				return err
			}
			if err := repo.SetTrending(context.Background(), topics); err != nil {
				return err
			}
			fmt.Println("Trending topics updated.")
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read topics from a file (- for stdin)")
	return cmd
}

func trendingRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild trending topics from the configured feeds and keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent := app.NewTrendingAgent(cfg.Trending, repo, app.NewLimiter(cfg.RateLimit), log)

			result, err := agent.Refresh(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Trending Refresh ===\n")
			fmt.Printf("Sources:     %d\n", result.Sources)
			fmt.Printf("Items Found: %d\n", result.ItemsFound)
			fmt.Printf("Items Kept:  %d\n", result.ItemsKept)
			fmt.Printf("Updated:     %t\n", result.Updated)
			fmt.Printf("Duration:    %s\n", result.Duration.Round(time.Millisecond))

			if len(result.Errors) > 0 {
				fmt.Printf("\nErrors:\n")
				for _, e := range result.Errors {
					fmt.Printf("  - %s\n", e)
				}
			}
			if result.Updated {
				fmt.Printf("\n%s\n", result.Topics)
			}
			return nil
		},
	}
}

// ============ GENERATE COMMAND ============

func generateCmd() *cobra.Command {
	var opts models.GenerationOptions
	var length, tone string
	var toSlack bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a LinkedIn post from the corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			if toSlack {
				if err := cfg.ValidateSlack(false); err != nil {
					return err
				}
			}

			limiter := app.NewLimiter(cfg.RateLimit)
			agent, err := app.NewPublisher(cfg, repo, app.NewSlackNotifier(cfg.Slack, limiter, log), limiter, log)
			if err != nil {
				return err
			}

			opts.Length = models.Length(length)
			opts.Tone = models.Tone(tone)

			generate := agent.Generate
			if toSlack {
				generate = agent.Publish
			}
			result, err := generate(ctx, opts)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Generated Post ===\n")
			fmt.Printf("Content pool:   %d (selected %s, topic match: %t)\n", result.ContentPool, result.Selected.ID, result.TopicMatched)
			fmt.Printf("Brand examples: %d\n", result.BrandExamples)
			fmt.Printf("Memory notes:   %d\n", result.MemoryNotes)
			fmt.Printf("Trending used:  %t\n", result.TrendingUsed)

			switch img := result.Image.(type) {
			case media.Image:
				fmt.Printf("Image:          %s, %d chars as data URI\n", img.MIMEType, len(img.DataURI))
			case media.NoImage:
				fmt.Printf("Image:          none (%s)\n", img.Reason)
			}

			fmt.Printf("\n--- Post ---\n%s\n", result.Post)
			if toSlack {
				fmt.Printf("\nPosted to %s\n", cfg.Slack.Channel)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Topic, "topic", "", "Prefer content containing this topic")
	cmd.Flags().StringVar(&length, "length", string(models.LengthMedium), "Post length: short, medium or long")
	cmd.Flags().StringVar(&tone, "tone", string(models.ToneDefault), "Tone: default, casual, inspirational or controversial")
	cmd.Flags().BoolVar(&opts.GenerateImage, "image", false, "Also generate an image")
	cmd.Flags().BoolVar(&toSlack, "slack", false, "Post the result to the configured Slack channel")

	return cmd
}

// readBody takes the text from a file, stdin, or the joined arguments
func readBody(args []string, file string) (string, error) {
	var body string
	switch {
	case file == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		body = string(data)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		body = string(data)
	default:
		body = strings.Join(args, " ")
	}

	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("no text given: pass it as arguments or with --file")
	}
	return body, nil
}

// Helper function to truncate strings
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
