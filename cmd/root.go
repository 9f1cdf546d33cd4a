package cmd

import (
	"fmt"
	"os"

	"github.com/emukit/ps2ipc/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (
	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "ps2ipc",
		Short: "memory access client for the PCSX2 IPC socket",
		Long: fmt.Sprintf(`ps2ipc (v%s)

A client for the socket based IPC of PCSX2-style emulators.
It reads and writes emulated memory through the relay endpoint,
one command at a time or batched into multi-command messages.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ps2ipc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ps2ipc v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(readCmd)
	RootCmd.AddCommand(writeCmd)
	RootCmd.AddCommand(perfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupClientFlags(RootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	util.InitClientConfig()

	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
