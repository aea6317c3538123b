package simulate

import "fmt"

// Named is a lookup table of scenario builders by the short names the
// simulate CLI subcommand accepts.
var Named = map[string]Scenario{
	"quiet":   QuietBaseline(2000),
	"tap":     ImpulseTap(1000, 0.3, 3),
	"walking": WalkingSimulation(500, 5),
	"sway":    LowFrequencySway(500, 5),
	"pwave":   PWaveArrival(1000, 0.5),
	"shaking": SevereShaking(500, 2),
}

// Lookup resolves a scenario by name, returning an error listing the
// valid names if it is not found.
func Lookup(name string) (Scenario, error) {
	s, ok := Named[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (valid: quiet, tap, walking, sway, pwave, shaking)", name)
	}
	return s, nil
}
