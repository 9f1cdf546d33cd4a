package cmd

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/emukit/ps2ipc/cmd/util"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Benchmark single commands against batched commands",
		Long:    util.WrapString("Measures the round trip cost of single writes and of writes chained into multi-command batches against the configured relay endpoint."),
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}

	perfOps       = 1000
	perfBatchSize = 1000
	perfAddress   uint64
)

func init() {
	key := "ops"
	perfCmd.Flags().Int(key, 1000, util.WrapString("Number of single operations to sample"))
	key = "batch-size"
	perfCmd.Flags().Int(key, 1000, util.WrapString("Commands per batch for the batch benchmark"))
	key = "address"
	perfCmd.Flags().Uint64(key, 0x1000, util.WrapString("Memory address the benchmark writes to"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	perfOps = viper.GetInt("ops")
	perfBatchSize = viper.GetInt("batch-size")
	perfAddress = viper.GetUint64("address")
	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	fmt.Println("Benchmarking IPC round trips")

	config := util.GetClientConfig()
	fmt.Println(config.String())
	fmt.Printf("Samples: %d single ops, batches of %d\n\n", perfOps, perfBatchSize)

	c, err := util.NewClient()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx := context.Background()
	address := uint32(perfAddress)

	// Latency distribution of single writes
	hist := gometrics.NewHistogram(gometrics.NewUniformSample(perfOps))
	for i := 0; i < perfOps; i++ {
		start := time.Now()
		if err := c.Write8(ctx, address, uint8(i)); err != nil {
			return fmt.Errorf("single write %d failed: %v", i, err)
		}
		hist.Update(time.Since(start).Nanoseconds())
	}

	ps := hist.Percentiles([]float64{0.5, 0.95, 0.99})
	fmt.Println("single write latency:")
	fmt.Printf("  mean: %v  p50: %v  p95: %v  p99: %v\n\n",
		time.Duration(int64(hist.Mean())),
		time.Duration(int64(ps[0])),
		time.Duration(int64(ps[1])),
		time.Duration(int64(ps[2])))

	// Amortized cost per command in batch mode
	var sendErr error
	batchResult := testing.Benchmark(func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			batch := c.InitializeBatch()
			for j := 0; j < perfBatchSize; j++ {
				if err := batch.Write8(address, uint8(j)); err != nil {
					sendErr = err
					return
				}
			}
			cmd, err := batch.Finalize()
			if err != nil {
				sendErr = err
				return
			}
			if err := c.Send(ctx, cmd); err != nil {
				sendErr = err
				return
			}
		}
	})
	if sendErr != nil {
		return fmt.Errorf("batch benchmark failed: %v", sendErr)
	}

	perBatch := time.Duration(batchResult.NsPerOp())
	fmt.Println("batched writes:")
	fmt.Printf("  per batch: %v  per command: %v\n",
		perBatch, perBatch/time.Duration(perfBatchSize))

	return nil
}
