package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// DeviceTableItem represents one capture source in the devices listing.
type DeviceTableItem struct {
	ID    string
	Kind  string
	Label string
}

// DeviceTableView renders the capture source table.
func DeviceTableView(items []DeviceTableItem) string {
	if len(items) == 0 {
		return MutedStyle.Render("No capture sources available")
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.ID, item.Kind, item.Label})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Primary)).
		Headers("ID", "Kind", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case row%2 == 0:
				return TableRowStyle
			default:
				return TableRowAltStyle
			}
		})

	return tbl.Render()
}

// RenderDeviceTable outputs the device table directly to stdout.
func RenderDeviceTable(items []DeviceTableItem) {
	fmt.Println(DeviceTableView(items))
}

// RoomInfoView renders the box shown to the host while waiting for the
// candidate to join.
func RoomInfoView(roomID, roomLink string) string {
	content := fmt.Sprintf("%s Interview room ready\n\n%s Room ID:    %s\n%s Room Link:  %s\n\n%s Waiting for the candidate to join",
		IconRoom,
		IconPeer, BoldStyle.Foreground(Primary).Render(roomID),
		IconWeb, MutedStyle.Render(roomLink),
		IconWaiting,
	)

	return SuccessBoxStyle.Render(content)
}

// RenderRoomInfo outputs the room box directly to stdout.
func RenderRoomInfo(roomID, roomLink string) {
	fmt.Println(RoomInfoView(roomID, roomLink))
}
