package cmd

import (
	"os"
	"os/signal"

	"github.com/Naveenpl1081/algonest-call/internal/ui"
	"github.com/Naveenpl1081/algonest-call/internal/version"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "algocall",
	Short:   "Peer-to-peer interview calls for the AlgoNest platform",
	Long: `algocall runs AlgoNest interview calls from the terminal. It connects two
participants directly over WebRTC, with chat and screen sharing multiplexed
over the same room-scoped signaling relay the web client uses. The serve
subcommand runs that relay.`,
	Version: version.Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		os.Exit(0)
	}()

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}
