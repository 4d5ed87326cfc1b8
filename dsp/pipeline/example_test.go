package pipeline_test

import (
	"fmt"

	"github.com/cwbudde/pcmlab/dsp/pipeline"
)

func ExampleRun() {
	p := pipeline.DefaultParams(pipeline.VariantBeginner)
	p.FrequencyHz = 60

	res, err := pipeline.Run(p, nil)
	if err != nil {
		fmt.Println(err)
		return
	}

	m := res.Metrics
	fmt.Printf("samples=%d nyquist=%.0f aliased=%v alias=%.0f levels=%d\n",
		res.Quantized.Len(), m.NyquistHz, m.Aliased, m.AliasHz, m.Levels)

	// Output:
	// samples=50 nyquist=50 aliased=true alias=40 levels=8
}
