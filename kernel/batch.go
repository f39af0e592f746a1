package kernel

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum batch size worth spreading across workers.
const parallelThreshold = 4

// workChunk is a range of batch indices for one worker.
type workChunk struct {
	start, end int
}

// GenerateAll builds one patch per entry of params. Output order matches
// input order. If any parameter set is invalid, the error for the lowest
// such index is returned and no patches.
func GenerateAll(params []Params) ([]*Patch, error) {
	n := len(params)
	patches := make([]*Patch, n)
	errs := make([]error, n)

	compute := func(c workChunk) {
		for i := c.start; i < c.end; i++ {
			patches[i], errs[i] = Generate(params[i])
		}
	}

	numWorkers := min(runtime.GOMAXPROCS(0), n)
	if n < parallelThreshold || numWorkers < 2 {
		compute(workChunk{0, n})
	} else {
		work := make(chan workChunk, numWorkers)
		var wg sync.WaitGroup
		for w := 0; w < numWorkers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for c := range work {
					compute(c)
				}
			}()
		}

		chunkSize := (n + numWorkers - 1) / numWorkers
		for start := 0; start < n; start += chunkSize {
			work <- workChunk{start: start, end: min(start+chunkSize, n)}
		}
		close(work)
		wg.Wait()
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return patches, nil
}
