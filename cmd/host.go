package cmd

import (
	"github.com/Naveenpl1081/algonest-call/internal/call"
	"github.com/Naveenpl1081/algonest-call/internal/config"
	"github.com/spf13/cobra"
)

var hostOpts config.Options

var hostCmd = &cobra.Command{
	Use:   "host <room-id>",
	Short: "Start an interview call as the interviewer",
	Long: `Host joins the given room as the interviewer. The room ID comes from the
AlgoNest platform; the first participant to join becomes the host and sends
the WebRTC offer once the candidate arrives.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID, err := parseRoomInput(args[0])
		if err != nil {
			return err
		}
		return runCall(call.RoleHost, roomID, hostOpts)
	},
}

func init() {
	rootCmd.AddCommand(hostCmd)
	addCallFlags(hostCmd, &hostOpts)
}

// addCallFlags wires the shared connection flags onto a call command.
func addCallFlags(cmd *cobra.Command, opts *config.Options) {
	cmd.Flags().StringVarP(&opts.Domain, "domain", "d", "", "signaling relay domain (default "+config.DefaultDomain+")")
	cmd.Flags().StringVarP(&opts.DisplayName, "name", "n", "", "display name shown to the peer (default hostname)")
	cmd.Flags().StringVar(&opts.STUNServer, "stun", "", "STUN server URL")
	cmd.Flags().StringVar(&opts.TURNServer, "turn", "", "TURN server host")
	cmd.Flags().StringVar(&opts.TURNUser, "turn-user", "", "TURN username")
	cmd.Flags().StringVar(&opts.TURNPass, "turn-pass", "", "TURN password")
	cmd.Flags().BoolVar(&opts.ForceRelay, "force-relay", false, "force all media through TURN relays")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "negotiation timeout (default 30s)")
}
