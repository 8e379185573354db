package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bgee-translator/internal/cache"
	"bgee-translator/internal/config"
	"bgee-translator/internal/graph"
	"bgee-translator/internal/index"
	"bgee-translator/internal/mapper"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Str("run_id", uuid.NewString()).Logger()

	rootCmd := &cobra.Command{
		Use:   "bgee-translator",
		Short: "Export game string tables to spreadsheets and import them back translated",
		Long: `Exports the translatable text of every string table to paginated .xlsx files,
with markup, format placeholders and proper nouns protected, and records where each
line went in an index. Once the spreadsheets are translated, a second run reads the
index and writes the string tables for the target locale.

Without a subcommand the phase is picked from the index file: export when it is
absent, import when it is present.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			mode, err := mapper.DetectMode(cfg.IndexPath())
			if err != nil {
				return err
			}
			return run(cfg, mode)
		},
	}

	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write protected text to spreadsheets and create the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForced(mapper.ModeExport)
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Rebuild string tables for the target locale from translated spreadsheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForced(mapper.ModeImport)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which phase the next run performs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, config.Load())
		},
	}
}

// runForced refuses to run a phase the index file does not allow.
func runForced(want mapper.Mode) error {
	cfg := config.Load()
	mode, err := mapper.DetectMode(cfg.IndexPath())
	if err != nil {
		return err
	}
	if mode != want {
		if want == mapper.ModeExport {
			return fmt.Errorf("index %s already exists; remove it to export again", cfg.IndexPath())
		}
		return fmt.Errorf("index %s not found; run export first", cfg.IndexPath())
	}
	return run(cfg, mode)
}

func run(cfg *config.Config, mode mapper.Mode) error {
	ctx, cancel := setupContext()
	defer cancel()

	deps, err := initDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close(ctx)

	log.Info().
		Str("mode", mode.String()).
		Str("source", cfg.SourceLocale).
		Str("target", cfg.TargetLocale).
		Strs("collections", cfg.Collections).
		Msg("Starting")

	sinks := deps.Sinks()
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(mode.String()),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	sinks.Progress = bar
	defer bar.Finish()

	switch mode {
	case mapper.ModeExport:
		return runExport(ctx, cfg, sinks)
	default:
		return runImport(ctx, cfg, sinks)
	}
}

// runExport handles the export phase.
func runExport(ctx context.Context, cfg *config.Config, sinks mapper.Sinks) error {
	_, summary, err := mapper.NewExporter(cfg, sinks).Run(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	log.Info().
		Int("collections", summary.Collections).
		Int("files", summary.Files).
		Int("lines", summary.Lines).
		Int("titles", summary.Titles).
		Int("pages", summary.Pages).
		Int("prefilled", summary.Prefilled).
		Msg("Export complete")
	log.Info().
		Str("folder", cfg.TempDir).
		Msg("Translate the .xlsx files, replace them in the folder and run again to import")
	return nil
}

// runImport handles the import phase.
func runImport(ctx context.Context, cfg *config.Config, sinks mapper.Sinks) error {
	idx, err := index.Load(cfg.IndexPath())
	if err != nil {
		return err
	}

	log.Info().Str("target", cfg.TargetDisplayName).Msg("Import in progress")
	summary, err := mapper.NewRestorer(cfg, sinks).Run(ctx, idx)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	log.Info().
		Int("collections", summary.Collections).
		Int("files", summary.Files).
		Int("fields", summary.Fields).
		Int("learned", summary.Learned).
		Msg("Import complete")
	return nil
}

func runStatus(cmd *cobra.Command, cfg *config.Config) error {
	mode, err := mapper.DetectMode(cfg.IndexPath())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "index:  %s\n", cfg.IndexPath())
	fmt.Fprintf(out, "next:   %s\n", mode)
	if mode != mapper.ModeImport {
		return nil
	}

	idx, err := index.Load(cfg.IndexPath())
	if err != nil {
		return err
	}
	for _, c := range idx.Collections() {
		fmt.Fprintf(out, "  %s: %d files, %d fields\n", c, len(idx[c]), idx.Count(c))
	}
	return nil
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// dependencies holds the optional translation memory and glossary backends.
type dependencies struct {
	pgPool      *pgxpool.Pool
	neo4jDriver neo4j.DriverWithContext
	memory      *cache.TranslationMemory
	glossary    *graph.Glossary
}

func (d *dependencies) Sinks() mapper.Sinks {
	var s mapper.Sinks
	if d.memory != nil {
		s.Memory = d.memory
	}
	if d.glossary != nil {
		s.Glossary = d.glossary
	}
	return s
}

func (d *dependencies) Close(ctx context.Context) {
	if d.pgPool != nil {
		d.pgPool.Close()
	}
	if d.neo4jDriver != nil {
		d.neo4jDriver.Close(ctx)
	}
}

// initDependencies connects the backends that are configured and prepares
// their schemas.
func initDependencies(ctx context.Context, cfg *config.Config) (*dependencies, error) {
	deps := &dependencies{}

	if cfg.DatabaseURL != "" {
		pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect PostgreSQL: %w", err)
		}
		deps.pgPool = pgPool

		if err := pgPool.Ping(ctx); err != nil {
			deps.Close(ctx)
			return nil, fmt.Errorf("ping PostgreSQL: %w", err)
		}
		log.Info().Msg("Connected to PostgreSQL")

		memory := cache.NewTranslationMemory(pgPool, cfg.TargetLocale)
		if err := memory.EnsureSchema(ctx); err != nil {
			deps.Close(ctx)
			return nil, err
		}
		if err := memory.Preload(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to preload translation memory")
		}
		deps.memory = memory
	}

	if cfg.Neo4jURI != "" {
		neo4jDriver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
		if err != nil {
			deps.Close(ctx)
			return nil, fmt.Errorf("connect Neo4j: %w", err)
		}
		deps.neo4jDriver = neo4jDriver

		if err := neo4jDriver.VerifyConnectivity(ctx); err != nil {
			deps.Close(ctx)
			return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
		}
		log.Info().Msg("Connected to Neo4j")

		glossary := graph.NewGlossary(neo4jDriver, cfg.TargetLocale)
		if err := glossary.EnsureSchema(ctx); err != nil {
			deps.Close(ctx)
			return nil, err
		}
		if err := glossary.Preload(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to load glossary")
		}
		deps.glossary = glossary
	}

	return deps, nil
}
