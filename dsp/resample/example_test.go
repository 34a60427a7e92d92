package resample_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rackdsp/dsp/resample"
)

func ExampleOversampler_Process() {
	os, err := resample.New(8)
	if err != nil {
		panic(err)
	}

	clip := resample.ComputeFunc(math.Tanh)

	var y float64
	for range 64 {
		y = os.Process(0.5, clip)
	}

	fmt.Printf("factor=%d out=%.4f\n", os.Factor(), y)
	// Output: factor=8 out=0.4621
}
