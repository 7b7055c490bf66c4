package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	configx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/config"
	logx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/logger"
	_ "github.com/tanpawarit/Chative-Shop-Assistant/pkg/logger/autoload"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "shopassist",
	Short:         "Shop assistant chat server and research assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile == "" {
			return nil
		}
		configx.SetEnvFile(envFile)
		conf, err := configx.New[logx.Config]("LOG")
		if err != nil {
			return err
		}
		logx.Init(*conf)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (default ./.env when present)")
	rootCmd.AddCommand(serveCmd, researchCmd, notesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
