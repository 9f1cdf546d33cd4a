package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/emukit/ps2ipc/cmd/util"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <width-bits> <address>",
	Short: "Read a value from emulated memory",
	Long: util.WrapString("Reads a value of 8, 16, 32 or 64 bits from the " +
		"given address of the emulated process. The address accepts decimal " +
		"or 0x-prefixed hexadecimal notation."),
	Args:    cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, _ []string) error { return util.BindCommandFlags(cmd) },
	RunE:    runRead,
}

func runRead(_ *cobra.Command, args []string) error {
	width, err := util.ParseWidth(args[0])
	if err != nil {
		return err
	}

	address, err := strconv.ParseUint(args[1], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid address %q: %v", args[1], err)
	}

	c, err := util.NewClient()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx := context.Background()

	var value uint64
	switch width {
	case 1:
		v, err := c.Read8(ctx, uint32(address))
		if err != nil {
			return err
		}
		value = uint64(v)
	case 2:
		v, err := c.Read16(ctx, uint32(address))
		if err != nil {
			return err
		}
		value = uint64(v)
	case 4:
		v, err := c.Read32(ctx, uint32(address))
		if err != nil {
			return err
		}
		value = uint64(v)
	case 8:
		value, err = c.Read64(ctx, uint32(address))
		if err != nil {
			return err
		}
	}

	fmt.Printf("0x%0*X (%d)\n", width*2, value, value)
	return nil
}
