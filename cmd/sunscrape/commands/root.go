package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/portal"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	dumpDir    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigName, "The json5 config file, searched for up from the working directory by default.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output.")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dump-http", "", "Write every portal request and response to this directory.")
}

const envKey = "sunscrape.env"

type env struct {
	cfg    Config
	tel    telemetry.API
	client *portal.Client
}

func getEnv(ctx context.Context) *env {
	return ctx.Value(envKey).(*env)
}

var rootCmd = &cobra.Command{
	Use:          "sunscrape",
	Short:        "sunscrape scrapes Florida campaign finance reports and matches filers to candidates and committees.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		tel := telemetry.NewSlogAPI(slog.Default())

		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		opts := cfg.Portal.options()
		opts.DumpDir = dumpDir
		client, err := portal.NewClient(opts, tel)
		if err != nil {
			return fmt.Errorf("create portal client: %w", err)
		}

		cmd.SetContext(context.WithValue(cmd.Context(), envKey, &env{
			cfg:    cfg,
			tel:    tel,
			client: client,
		}))
		return nil
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
