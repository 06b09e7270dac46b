// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package impulse

import (
	"runtime"
	"slices"
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

// A Series is the expression of a gene
// along a pseudotime trajectory,
// as paired time and expression observations.
type Series struct {
	X, Y []float64
}

// A Batch is the outcome of fitting a set of genes.
type Batch struct {
	// Fits maps each fitted gene to its result.
	Fits map[string]Result

	// Failed lists the genes without a valid fit,
	// either because no initialization converged
	// or because the series was invalid.
	Failed []string
}

// FitBatch fits an impulse curve to each gene of a set.
// Each gene is fitted independently;
// a gene that fails to fit is reported in the batch
// and does not stop the remaining genes.
// Use cpu to define the number of concurrent fits.
// The default (zero) uses all available CPU.
//
// Each gene is fitted with its own random stream
// drawn from the fitter source,
// so a batch is reproducible for a given source seed
// regardless of the number of CPUs.
func (ft Fitter) FitBatch(genes map[string]Series, cpu int) Batch {
	if cpu == 0 {
		cpu = runtime.NumCPU()
	}

	src := ft.Src
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}

	names := make([]string, 0, len(genes))
	for g := range genes {
		names = append(names, g)
	}
	slices.Sort(names)

	r := rand.New(src)
	seeds := make(map[string]uint64, len(names))
	for _, g := range names {
		seeds[g] = r.Uint64()
	}

	type answer struct {
		gene string
		res  Result
		err  error
	}
	in := make(chan string, cpu*2)
	out := make(chan answer, cpu*2)

	var wg sync.WaitGroup
	for i := 0; i < cpu; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range in {
				f := ft
				f.Src = rand.NewSource(seeds[g])
				s := genes[g]
				res, err := f.Fit(s.X, s.Y)
				out <- answer{gene: g, res: res, err: err}
			}
		}()
	}
	go func() {
		for _, g := range names {
			in <- g
		}
		close(in)
		wg.Wait()
		close(out)
	}()

	b := Batch{Fits: make(map[string]Result, len(genes))}
	for a := range out {
		if a.err != nil {
			b.Failed = append(b.Failed, a.gene)
			continue
		}
		b.Fits[a.gene] = a.res
	}
	slices.Sort(b.Failed)
	return b
}
