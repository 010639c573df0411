package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asgeY/poet"
	"github.com/asgeY/poet/internal/cli"
	"github.com/asgeY/poet/internal/logging"
	"github.com/asgeY/poet/internal/presentation/tui"
	"github.com/asgeY/poet/pkg/screens/countdown"
	"github.com/asgeY/poet/pkg/screens/login"
	"github.com/asgeY/poet/pkg/screens/retail"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:       "run [countdown|login|retail]",
	Short:     "Present a screen in the terminal",
	Long:      `Runs one screen interactively. Output is derived from the screen's translator; input becomes intents.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{countdown.Name, login.Name, retail.Name},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := countdown.Name
		if len(args) > 0 {
			kind = args[0]
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		plain, _ := cmd.Flags().GetBool("plain")
		quiet, _ := cmd.Flags().GetBool("quiet")

		// Logs would interleave with the screen, so they stay off unless asked for.
		logger := logging.NewNop()
		if debug {
			cfg.LogLevel = "debug"
			logger = cfg.Logger()
		}

		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()

		term := cli.NewTerminal(cli.NewInterruptibleReader(os.Stdin, sc.Done()), os.Stdout)
		term.Logger = logger
		if !plain {
			term.Render = tui.NewRenderer()
		}
		if !quiet {
			tui.PrintBanner(os.Stdout, poet.Version)
		}

		b, err := openBackends(sc, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = b.close() }()

		switch kind {
		case countdown.Name:
			err = cli.RunCountdown(sc, term, cfg.Countdown.From, cfg.Countdown.Interval)
		case login.Name:
			err = cli.RunLogin(sc, term, b.auth)
		case retail.Name:
			err = cli.RunRetail(sc, term, b.catalog)
		default:
			return fmt.Errorf("unknown screen %q", kind)
		}

		if sig := sc.Signal(); sig != nil && !quiet {
			term.System("Interrupted (%s).", sig)
		}
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("debug", false, "Write debug logs to stderr")
	runCmd.Flags().Bool("plain", false, "Print alerts as raw markdown")
	runCmd.Flags().BoolP("quiet", "q", false, "Skip the banner and system messages")
}
