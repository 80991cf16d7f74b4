package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/supplydesk/desk/internal/cli"
	"github.com/supplydesk/desk/internal/config"
	"github.com/supplydesk/desk/pkg/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	command := NewDeskCommand()
	if err := command.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func NewDeskCommand() *cobra.Command {
	var logLevel string
	undo := func() {}

	cmd := &cobra.Command{
		Use:   "desk [flags] [options]",
		Short: "desk works with procurement requests and supplier parsing tasks.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			encoding := log.ConsoleEncoding
			if cfg, err := config.New(); err == nil {
				encoding = cfg.Service.LogFormat
				if !cmd.Flags().Changed("log-level") {
					logLevel = cfg.Service.LogLevel
				}
			}
			logLvl, err := log.ParseLevel(logLevel)
			if err != nil {
				logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
			}
			undo = zap.ReplaceGlobals(log.InitLog(logLvl, encoding))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
			undo()
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error (default from DESK_LOG_LEVEL)")

	cmd.AddCommand(cli.NewCmdGet())
	cmd.AddCommand(cli.NewCmdUpload())
	cmd.AddCommand(cli.NewCmdSubmit())
	cmd.AddCommand(cli.NewCmdDelete())
	cmd.AddCommand(cli.NewCmdStartParsing())
	cmd.AddCommand(cli.NewCmdParse())
	cmd.AddCommand(cli.NewCmdStatus())
	cmd.AddCommand(cli.NewCmdApprove())
	cmd.AddCommand(cli.NewCmdReject())
	cmd.AddCommand(cli.NewCmdModerate())
	cmd.AddCommand(cli.NewCmdSuppliers())
	cmd.AddCommand(cli.NewCmdWatch())
	cmd.AddCommand(cli.NewCmdConfigure())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
