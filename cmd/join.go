package cmd

import (
	"github.com/Naveenpl1081/algonest-call/internal/call"
	"github.com/Naveenpl1081/algonest-call/internal/config"
	"github.com/spf13/cobra"
)

var joinOpts config.Options

var joinCmd = &cobra.Command{
	Use:   "join <room-id or link>",
	Short: "Join an interview call as the candidate",
	Long: `Join connects to an existing room as the candidate. Accepts either a bare
room ID or the full call link from the invitation email
(https://<domain>/video-call/<room-id>).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID, err := parseRoomInput(args[0])
		if err != nil {
			return err
		}
		return runCall(call.RoleGuest, roomID, joinOpts)
	},
}

func init() {
	rootCmd.AddCommand(joinCmd)
	addCallFlags(joinCmd, &joinOpts)
}
