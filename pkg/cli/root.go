package cli

import (
	"github.com/spf13/cobra"

	internalcli "github.com/acs560/marquee/internal/cli"
)

// NewRootCmd creates the public marquee root command for embedding.
func NewRootCmd() *cobra.Command {
	return internalcli.NewRootCmd()
}
