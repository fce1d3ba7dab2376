// Package main tunes the predator's decision parameters with CMA-ES,
// minimising the time it takes to eat every prey.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/predprey/config"
)

// evalRow is one line of optimize_log.csv.
type evalRow struct {
	Eval            int     `csv:"eval"`
	Fitness         float64 `csv:"fitness"`
	ClearTicks      float64 `csv:"clear_ticks"`
	Cleared         int     `csv:"cleared"`
	MeanHunger      float64 `csv:"mean_hunger"`
	PickerThreshold float64 `csv:"picker_threshold"`
	GateThreshold   float64 `csv:"gate_threshold"`
	Distance        float64 `csv:"distance"`
}

// evalLog appends rows to a CSV file, writing the header once.
type evalLog struct {
	f      *os.File
	header bool
}

func (l *evalLog) write(r evalRow) error {
	rows := []evalRow{r}
	if !l.header {
		l.header = true
		return gocsv.Marshal(rows, l.f)
	}
	return gocsv.MarshalWithoutHeaders(rows, l.f)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 20000, "Tick cap per run")
	seeds := flag.Int("seeds", 3, "Seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, int32(*maxTicks), evalSeeds, baseCfg)

	f, err := os.Create(filepath.Join(*outputDir, "optimize_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer f.Close()
	evals := &evalLog{f: f}

	count := 0
	best := math.Inf(1)
	var bestParams []float64
	start := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			run := evaluator.Last()
			count++

			if fitness < best {
				best = fitness
				bestParams = raw
			}

			if err := evals.write(evalRow{
				Eval:            count,
				Fitness:         fitness,
				ClearTicks:      run.MeanClearTicks,
				Cleared:         run.Cleared,
				MeanHunger:      run.MeanHunger,
				PickerThreshold: raw[0],
				GateThreshold:   raw[1],
				Distance:        raw[2],
			}); err != nil {
				log.Printf("failed to log evaluation: %v", err)
			}

			elapsed := time.Since(start)
			fmt.Printf("eval %d/%d: clear=%.1fs cleared=%d/%d hunger=%.2f best=%.0f | %s\n",
				count, *maxEvals,
				run.MeanClearTicks*baseCfg.Clock.FrameDT, run.Cleared, run.Seeds, run.MeanHunger,
				best, elapsed.Round(time.Second))
			return fitness
		},
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(params.Dim())))
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}

	fmt.Printf("CMA-ES over %d parameters, population=%d, max_evals=%d, seeds=%d\n",
		params.Dim(), popSize, *maxEvals, *seeds)

	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	fmt.Printf("\n%d evaluations in %s, best fitness %.0f\n", count, time.Since(start).Round(time.Second), best)
	for i, spec := range params.Specs {
		fmt.Printf("  %s = %.4f\n", spec.Path, bestParams[i])
	}

	if err := params.ApplyToConfig(baseCfg, bestParams); err != nil {
		log.Fatalf("failed to apply best parameters: %v", err)
	}
	out := filepath.Join(*outputDir, "best_config.yaml")
	if err := baseCfg.WriteYAML(out); err != nil {
		log.Fatalf("failed to write best config: %v", err)
	}
	fmt.Printf("best config saved to %s\n", out)
}
