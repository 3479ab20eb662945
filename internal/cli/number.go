package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wikistream/internal/meta"
)

// NumberView is the JSON payload of the number command.
type NumberView struct {
	Class  string `json:"class"`
	Type   string `json:"type"`
	Input  string `json:"input"`
	Value  any    `json:"value"`
	GoType string `json:"go_type"`
}

// NewNumberCommand creates the number command.
func NewNumberCommand(rootOpts *RootOptions) *cobra.Command {
	var numberType string

	cmd := &cobra.Command{
		Use:   "number <value>",
		Short: "Parse a value as a Number property",
		Long: `Parse a value the way a Number property of the given type stores it.
Types are those the Number meta-class allows: integer, long, float, double.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			metaClass := meta.NewNumberMetaClass()
			if !metaClass.NumberType().Allows(numberType) {
				err := fmt.Errorf("invalid number type %q: must be one of %v", numberType, metaClass.NumberType().Values())
				return outputCommandError(formatter, ErrCodeGeneric, err)
			}

			prop := metaClass.NewObject()
			prop.SetNumberType(numberType)
			value, err := prop.FromString(args[0])
			if err != nil {
				_ = formatter.Error(ErrCodeInvalid, err.Error(), nil)
				return WrapExitError(ExitFailure, "invalid number", err)
			}

			view := NumberView{
				Class:  metaClass.Name(),
				Type:   numberType,
				Input:  args[0],
				Value:  value,
				GoType: fmt.Sprintf("%T", value),
			}
			if formatter.JSON() {
				return formatter.Success(view)
			}
			formatter.Println(fmt.Sprintf("%v (%s)", view.Value, view.GoType))
			return nil
		},
	}

	cmd.Flags().StringVarP(&numberType, "type", "t", meta.NumberLong, "number type (integer|long|float|double)")

	return cmd
}
