// Package cmd implements the command-line interface of ps2ipc. It
// exposes single memory reads and writes, a benchmark comparing single
// against batched commands, and shared transport/endpoint flags.
//
// The package is organized as follows:
//
//   - read, write: one-shot memory access commands
//   - perf: round trip benchmark (single vs. batch)
//   - util: shared utilities for flag processing and client construction
//
// See ps2ipc -help for a list of all commands.
package cmd
