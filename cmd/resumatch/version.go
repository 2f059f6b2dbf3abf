package main

import (
	"fmt"
	runtimedebug "runtime/debug"

	"github.com/spf13/cobra"
)

// version is set with -ldflags at release build time.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the resumatch version",
	Run: func(cmd *cobra.Command, args []string) {
		v := version
		if v == "dev" {
			if info, ok := runtimedebug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
				v = info.Main.Version
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "resumatch %s\n", v)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
