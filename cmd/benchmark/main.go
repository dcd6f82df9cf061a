package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/reactivity/reactive"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	widthsKey  = "widths"
	heightsKey = "heights"
	itersKey   = "iters"
	profileKey = "profile"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure write propagation through reactive containers",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{
				Name:  widthsKey,
				Usage: "Number of independent chains",
				Value: []int64{1, 10, 100, 1_000},
			},
			&cli.IntSliceFlag{
				Name:  heightsKey,
				Usage: "Number of computeds in each chain",
				Value: []int64{1, 10, 100, 1_000},
			},
			&cli.IntFlag{
				Name:  itersKey,
				Usage: "Writes measured per configuration",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	ww := cmd.IntSlice(widthsKey)
	hh := cmd.IntSlice(heightsKey)
	iters := int(cmd.Int(itersKey))

	log.Printf("warming up")
	benchmarkObject(ww, hh, iters, false)

	benchmarkObject(ww, hh, iters, true)
	benchmarkRef(ww, hh, iters, true)
	return nil
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendCalc(tbl table.Writer, w, h int64, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			fmt.Sprintf("propagate: %d * %d", w, h),
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

func newSystem() *reactive.ReactiveSystem {
	return reactive.CreateReactiveSystem(func(from reactive.SignalAware, err error) {
		log.Panic(err)
	})
}

// benchmarkObject feeds every chain from one key of a reactive object.
func benchmarkObject(ww, hh []int64, iters int, shouldRender bool) {
	tbl := newTable("Reactive object")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := newSystem()
			state := reactive.Reactive(rs, map[string]any{"src": 1})
			src := func() int {
				return state.Get("src").(int)
			}
			for i := int64(0); i < w; i++ {
				last := src
				for j := int64(0); j < h; j++ {
					c := reactive.Computed(rs, func(prev func() int) func() int {
						return func() int { return prev() + 1 }
					}(last))
					last = c.Value
				}
				reactive.Effect(rs, func() error {
					last()
					return nil
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				state.Set("src", i+2)
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, w, h, tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

// benchmarkRef feeds every chain from a single ref.
func benchmarkRef(ww, hh []int64, iters int, shouldRender bool) {
	tbl := newTable("Ref")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := newSystem()
			src := reactive.NewRef(rs, 1)
			for i := int64(0); i < w; i++ {
				last := src.Value
				for j := int64(0); j < h; j++ {
					prev := last
					last = reactive.Computed(rs, func() int {
						return prev() + 1
					}).Value
				}
				reactive.Effect(rs, func() error {
					last()
					return nil
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.SetValue(src.Value() + 1)
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, w, h, tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
