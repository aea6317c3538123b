package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/burakkonte/sinyalist/internal/seismic"
	"github.com/burakkonte/sinyalist/internal/simulate"
)

func simulateCommand() *cobra.Command {
	var scenarioName string
	var seed int64

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the detector against a built-in synthetic motion scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(scenarioName, seed)
		},
	}

	cmd.Flags().StringVar(&scenarioName, "scenario", "quiet", "scenario name: quiet, tap, walking, sway, pwave, shaking")
	cmd.Flags().Int64Var(&seed, "seed", 1, "deterministic seed for the synthetic stream")

	return cmd
}

func runSimulate(scenarioName string, seed int64) error {
	scenario, err := simulate.Lookup(scenarioName)
	if err != nil {
		return err
	}

	cfg := seismic.DefaultConfig()
	samples := scenario(cfg.SampleRateHz, uint64(seed))

	var events []seismic.SeismicEvent
	detector := seismic.New(
		func(e seismic.SeismicEvent) { events = append(events, e) },
		nil,
	)
	detector.UpdateConfig(cfg)

	for _, s := range samples {
		detector.ProcessSample(s.AX, s.AY, s.AZ, s.OffsetMs)
	}

	fmt.Printf("scenario %q: %d samples, %d events\n", scenarioName, len(samples), len(events))
	for _, e := range events {
		fmt.Printf("  %s peak=%.4fg ratio=%.2f freq=%.2fHz start=%dms dur=%d samples\n",
			e.Level, e.PeakG, e.StaLtaRatio, e.FreqHz, e.EventStartMs, e.DurationSamples)
	}
	return nil
}
