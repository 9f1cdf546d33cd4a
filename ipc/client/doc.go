// Package client implements the IPC client proper: single memory reads
// and writes, and the batch builder that chains many commands into one
// multi-command message.
//
// All operations share two preallocated scratch buffers sized for the
// worst-case batch, so the hot path never allocates. Two mutexes guard
// them: a batch-exclusivity lock (one batch under construction at a
// time, process-wide) and a shared-buffer lock (one user of the scratch
// regions, single command or batch). A batch holds both from
// InitializeBatch until Finalize, which hands the caller an
// independently owned BatchCommand and frees the scratch for the next
// user.
//
// Usage:
//
//	c, err := client.New(config, unix.NewUnixClientTransport())
//	v, err := c.Read32(ctx, 0x00347D34)
//
//	b := c.InitializeBatch()
//	_ = b.Write8(0x1000, 0x7F)
//	_ = b.Read32(0x2000)
//	cmd, err := b.Finalize()
//	err = c.Send(ctx, cmd)
//	v, err := cmd.Uint32(1)
package client
