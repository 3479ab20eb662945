package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wikistream/internal/eventstream"
)

// DescriptorView is the output form of an event descriptor.
type DescriptorView struct {
	EventType       string `json:"event_type"`
	ApplicationName string `json:"application_name"`
	Description     string `json:"description"`
	ApplicationIcon string `json:"application_icon"`
}

// NewDescriptorsCommand creates the descriptors command.
func NewDescriptorsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "descriptors",
		Short:         "List the recordable event types",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			var views []DescriptorView
			for _, d := range eventstream.DefaultRegistry().All() {
				views = append(views, DescriptorView{
					EventType:       d.EventType(),
					ApplicationName: d.ApplicationName(),
					Description:     d.Description(),
					ApplicationIcon: d.ApplicationIcon(),
				})
			}

			if formatter.JSON() {
				return formatter.Success(views)
			}
			for _, v := range views {
				formatter.Println(fmt.Sprintf("%-10s %-8s %-6s %s", v.EventType, v.ApplicationName, v.ApplicationIcon, v.Description))
			}
			return nil
		},
	}
}
