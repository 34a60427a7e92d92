package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-rackdsp/dsp/core"
)

const (
	gainIn  core.Port  = 0
	gainOut core.Port  = 0
	gainAmt core.Param = 0
)

type gainUnit struct {
	core.System

	gain float64
}

func (g *gainUnit) Invalidate() { g.gain = g.Param(gainAmt) }

func (g *gainUnit) Process() { g.SetOutput(gainOut, g.Input(gainIn)*g.gain) }

func ExampleSystem() {
	g := &gainUnit{}
	g.System, _ = core.NewSystem(core.Layout{Inputs: 1, Outputs: 1, Params: 1}, 44100, g)

	g.SetParam(gainAmt, 0.5)
	g.SetInputAndProcess(gainIn, 3)

	fmt.Println(g.Output(gainOut))

	// Output:
	// 1.5
}
