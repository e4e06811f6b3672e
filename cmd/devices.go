package cmd

import (
	"github.com/Naveenpl1081/algonest-call/internal/media"
	"github.com/Naveenpl1081/algonest-call/internal/ui"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available capture sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		devices := media.SystemCapture{}.Devices()
		if len(devices) == 0 {
			ui.PrintWarning("No capture sources available")
			return nil
		}

		items := make([]ui.DeviceTableItem, 0, len(devices))
		for _, d := range devices {
			items = append(items, ui.DeviceTableItem{
				ID:    d.ID,
				Kind:  string(d.Kind),
				Label: d.Label,
			})
		}

		ui.RenderDeviceTable(items)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
