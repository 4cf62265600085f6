package main

import (
	"fmt"
	"io"
	"time"

	"baml/internal/buildpipeline"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	if timings.Has(buildpipeline.StageRender) {
		fmt.Fprintf(out, "rendered %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageRender)))
	}
	if timings.Has(buildpipeline.StageWrite) {
		fmt.Fprintf(out, "written %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageWrite)))
	}
	if total := timings.Sum(buildpipeline.StageRender, buildpipeline.StageWrite); total > 0 {
		fmt.Fprintf(out, "total %.1f ms\n", toMillis(total))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
