// Package main is ecmafuzz's command-line entry point. It only constructs
// and wires the injectable pieces (corpus, engine, executor) into runnable
// subcommands; none of this is part of the engine's own contract.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ecmafuzz/internal/config"
	"ecmafuzz/internal/fuzzer"
	"ecmafuzz/internal/logging"
	"ecmafuzz/internal/tui"
)

var (
	verbose     bool
	workspace   string
	configPath  string
	engineKind  string
	executorKind string
	smokeRounds int
	smokeConcurrency int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ecmafuzz",
	Short: "Coverage-guided, mutation-based JS engine fuzzer over a typed IR",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = filepath.Join(workspace, "ecmafuzz.yaml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if engineKind != "" {
		cfg.Engine.Kind = engineKind
	}
	return cfg, cfg.Validate()
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one fuzzing engine until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess := newSession(cfg)
		exec, closeExec, err := sess.newExecutor(executorKind)
		if err != nil {
			return err
		}
		defer closeExec()

		engine, err := sess.buildEngine(cfg.Engine.Kind, exec)
		if err != nil {
			return err
		}

		ticker := fuzzer.StartCleanupTicker(sess.corpus, cfg.GetCleanupInterval())
		defer ticker.Stop()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigc
			cancel()
		}()

		log := logging.Get(logging.CategoryCLI)
		rounds := 0
		for {
			select {
			case <-ctx.Done():
				log.Info("run: stopped after %d rounds", rounds)
				return nil
			default:
			}
			if _, err := engine.RunRound(ctx); err != nil {
				log.Error("round failed: %v", err)
			}
			rounds++
		}
	},
}

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Replay a fixed number of rounds against a reference executor and report the outcome tally",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess := newSession(cfg)
		exec, closeExec, err := sess.newExecutor(executorKind)
		if err != nil {
			return err
		}
		defer closeExec()

		engine, err := sess.buildEngine(cfg.Engine.Kind, exec)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		result, err := fuzzer.Smoke(ctx, engine, smokeRounds, smokeConcurrency)
		if err != nil {
			return err
		}
		fmt.Printf("rounds=%d succeeded=%d failed=%d crashed=%d timedout=%d\n",
			result.Rounds, result.Succeeded, result.Failed, result.Crashed, result.TimedOut)
		return nil
	},
}

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect or persist the corpus",
}

var corpusFile string

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the corpus state to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess := newSession(cfg)
		return sess.corpus.ExportToFile(corpusFile)
	},
}

var corpusImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Load corpus state from a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess := newSession(cfg)
		if err := sess.corpus.ImportFromFile(corpusFile); err != nil {
			return err
		}
		fmt.Printf("corpus size: %d\n", sess.corpus.Len())
		return nil
	},
}

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print corpus size and age distribution",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess := newSession(cfg)
		if corpusFile != "" {
			if err := sess.corpus.ImportFromFile(corpusFile); err != nil {
				return err
			}
		}
		ages := sess.corpus.Ages()
		fmt.Printf("size=%d ages=%v\n", sess.corpus.Len(), ages)
		return nil
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the live fuzzing dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess := newSession(cfg)
		exec, closeExec, err := sess.newExecutor(executorKind)
		if err != nil {
			return err
		}
		defer closeExec()

		engine, err := sess.buildEngine(cfg.Engine.Kind, exec)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				_, _ = engine.RunRound(ctx)
			}
		}()

		return tui.Run(sess.bus, sess.corpus, sess.pool)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to ecmafuzz.yaml (default: <workspace>/ecmafuzz.yaml)")

	runCmd.Flags().StringVar(&engineKind, "engine", "", "mutation|hybrid|generative|splice|multi (default: config's engine.kind)")
	runCmd.Flags().StringVar(&executorKind, "executor", "noop", "noop|rod")

	smokeCmd.Flags().StringVar(&engineKind, "engine", "", "mutation|hybrid|generative|splice|multi (default: config's engine.kind)")
	smokeCmd.Flags().StringVar(&executorKind, "executor", "noop", "noop|rod")
	smokeCmd.Flags().IntVar(&smokeRounds, "rounds", 1000, "number of rounds to replay")
	smokeCmd.Flags().IntVar(&smokeConcurrency, "concurrency", 8, "rounds in flight at once")

	tuiCmd.Flags().StringVar(&engineKind, "engine", "", "mutation|hybrid|generative|splice|multi (default: config's engine.kind)")
	tuiCmd.Flags().StringVar(&executorKind, "executor", "noop", "noop|rod")

	corpusExportCmd.Flags().StringVar(&corpusFile, "file", "", "output file path")
	corpusExportCmd.MarkFlagRequired("file")
	corpusImportCmd.Flags().StringVar(&corpusFile, "file", "", "input file path")
	corpusImportCmd.MarkFlagRequired("file")
	corpusStatsCmd.Flags().StringVar(&corpusFile, "file", "", "optional corpus state file to load before reporting")

	corpusCmd.AddCommand(corpusExportCmd, corpusImportCmd, corpusStatsCmd)
	rootCmd.AddCommand(runCmd, smokeCmd, corpusCmd, tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
