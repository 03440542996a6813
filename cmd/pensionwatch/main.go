package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"pensionwatch/internal/config"
	"pensionwatch/internal/database"
	"pensionwatch/internal/pipeline"
	"pensionwatch/internal/score"
	"pensionwatch/internal/search"
	"pensionwatch/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "pensionwatch",
	Short:   "Daily pension fund allocation monitoring",
	Long:    "Pensionwatch searches for public pension fund allocation activity in VC, PE and private credit, scores and dedupes the results, and delivers a daily email digest.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(queriesCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pensionwatch", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/pensionwatch/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure search providers, email delivery, and registries.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		lastRun := stats.LastRunDate
		if lastRun == "" {
			lastRun = "never"
		}
		fmt.Printf("Last run: %s\n\n", lastRun)
		fmt.Println("Digests:")
		fmt.Printf("  Total: %d\n", stats.Digests)
		fmt.Printf("  Items delivered: %d\n", stats.ItemsDelivered)
		fmt.Println("\nDedup cache:")
		fmt.Printf("  Seen items: %d (TTL %d days)\n", stats.SeenItems, cfg.Scoring.CacheTTLDays)
		fmt.Println("\nRegistries:")
		fmt.Printf("  Funds: %d\n", len(cfg.Registries.Funds))
		fmt.Printf("  Asset classes: %d\n", len(cfg.Registries.AssetClasses))
		fmt.Printf("  Action keywords: %d\n", len(cfg.Registries.ActionKeywords))
		return nil
	},
}

// --- queries command ---

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Print the search queries a run would execute",
	RunE: func(cmd *cobra.Command, args []string) error {
		queries := search.BuildQueries(cfg.Registries.Funds)
		max := cfg.Search.Google.MaxQueries
		for i, q := range queries {
			marker := " "
			if max > 0 && i >= max {
				marker = "-" // beyond the per-run quota
			}
			fmt.Printf("%s [%3d] %s\n", marker, i+1, q)
		}
		fmt.Printf("\n%d Google queries (%d within quota)", len(queries), withinQuota(len(queries), max))
		fmt.Printf(", %d NewsAPI queries\n", len(cfg.Search.NewsAPI.Queries))
		return nil
	},
}

func withinQuota(total, max int) int {
	if max <= 0 || total <= max {
		return total
	}
	return max
}

// --- score command ---

var (
	scoreTitle   string
	scoreSnippet string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an ad-hoc title/snippet and print the breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		if scoreTitle == "" && scoreSnippet == "" {
			return fmt.Errorf("provide --title and/or --snippet")
		}

		scorer := score.NewScorer(registry())
		result := scorer.Score(search.Result{Title: scoreTitle, Snippet: scoreSnippet})

		fmt.Printf("Score: %d (threshold %d)\n\n", result.Score, cfg.Scoring.MinScore)
		if result.MatchedPension != "" {
			fmt.Printf("  Pension:  %s\n", result.MatchedPension)
		}
		if len(result.MatchedAssets) > 0 {
			fmt.Printf("  Assets:   %s\n", strings.Join(result.MatchedAssets, ", "))
		}
		if len(result.MatchedActions) > 0 {
			fmt.Printf("  Actions:  %s\n", strings.Join(result.MatchedActions, ", "))
		}
		verdict := "below threshold, would be dropped"
		if result.Score >= cfg.Scoring.MinScore {
			verdict = "actionable, would be included"
		}
		fmt.Printf("\n%s\n", verdict)
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreTitle, "title", "", "Item title to score")
	scoreCmd.Flags().StringVar(&scoreSnippet, "snippet", "", "Item snippet to score")
}

// --- search command ---

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Collect raw results from configured providers without ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		collector := search.NewCollector(cfg)
		batch := collector.Collect(context.Background())

		fmt.Println("\nCollection complete:")
		fmt.Printf("  Raw results: %d\n", len(batch.Results))
		fmt.Printf("  Queries run: %d\n", batch.QueriesRun)

		if len(batch.Sources) > 0 {
			fmt.Println("\nResults by source:")
			type kv struct {
				key string
				val int
			}
			var sorted []kv
			for k, v := range batch.Sources {
				sorted = append(sorted, kv{k, v})
			}
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].val > sorted[j].val })
			for _, s := range sorted {
				fmt.Printf("  %s: %d\n", s.key, s.val)
			}
		}
		return nil
	},
}

// --- run command ---

var (
	dryRun   bool
	noEmail  bool
	minScore int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full monitor: search -> rank -> render -> deliver",
	RunE: func(cmd *cobra.Command, args []string) error {
		if minScore > 0 {
			cfg.Scoring.MinScore = minScore
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db, search.NewCollector(cfg), cfg.GetDataDir())

		var result *pipeline.Result
		if dryRun {
			result = pipe.DryRun()
		} else {
			result, err = pipe.Run(context.Background(), noEmail)
			if err != nil {
				return err
			}
		}

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d/%d: %s\n", i+1, len(result.Steps), step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}

		if !dryRun {
			fmt.Println("\nRun complete! Use 'pensionwatch serve' to browse digest history.")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without executing")
	runCmd.Flags().BoolVar(&noEmail, "no-email", false, "Skip email delivery, save digest locally only")
	runCmd.Flags().IntVar(&minScore, "min-score", 0, "Override the digest admission threshold")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

func registry() score.Registry {
	return score.Registry{
		Funds:           cfg.Registries.Funds,
		PensionGenerics: cfg.Registries.PensionGenerics,
		AssetClasses:    cfg.Registries.AssetClasses,
		ActionKeywords:  cfg.Registries.ActionKeywords,
		ExcludeKeywords: cfg.Registries.ExcludeKeywords,
	}
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "pensionwatch.db")
	return database.Open(dbPath)
}
