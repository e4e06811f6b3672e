package cmd

import (
	"net/http"

	"github.com/Naveenpl1081/algonest-call/internal/relay"
	"github.com/Naveenpl1081/algonest-call/internal/ui"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the signaling relay",
	Long: `Serve runs the websocket signaling relay that pairs call participants.
Each room holds at most two peers; the relay forwards offers, answers, ICE
candidates, chat and screen share events between them without inspecting
the SDP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		hub := relay.NewHub()
		go hub.Run()

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", relay.ServeWs(hub))
		mux.HandleFunc("/health", relay.HealthHandler)

		ui.PrintSuccessf("Signaling relay listening on %s", serveAddr)
		ui.PrintInfo("Health probe mounted at /health")
		return http.ListenAndServe(serveAddr, mux)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "listen address")
}
