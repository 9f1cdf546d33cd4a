package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/emukit/ps2ipc/cmd/util"
	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write <width-bits> <address> <value>",
	Short: "Write a value to emulated memory",
	Long: util.WrapString("Writes a value of 8, 16, 32 or 64 bits to the " +
		"given address of the emulated process. Address and value accept " +
		"decimal or 0x-prefixed hexadecimal notation."),
	Args:    cobra.ExactArgs(3),
	PreRunE: func(cmd *cobra.Command, _ []string) error { return util.BindCommandFlags(cmd) },
	RunE:    runWrite,
}

func runWrite(_ *cobra.Command, args []string) error {
	width, err := util.ParseWidth(args[0])
	if err != nil {
		return err
	}

	address, err := strconv.ParseUint(args[1], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid address %q: %v", args[1], err)
	}

	value, err := strconv.ParseUint(args[2], 0, width*8)
	if err != nil {
		return fmt.Errorf("invalid %d bit value %q: %v", width*8, args[2], err)
	}

	c, err := util.NewClient()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx := context.Background()

	switch width {
	case 1:
		err = c.Write8(ctx, uint32(address), uint8(value))
	case 2:
		err = c.Write16(ctx, uint32(address), uint16(value))
	case 4:
		err = c.Write32(ctx, uint32(address), uint32(value))
	case 8:
		err = c.Write64(ctx, uint32(address), value)
	}
	if err != nil {
		return err
	}

	fmt.Printf("wrote 0x%0*X to 0x%08X\n", width*2, value, address)
	return nil
}
