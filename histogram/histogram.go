// Copyright 2017, Kerby Shedden and the Muscato contributors.
// Portions copyright the typeprint contributors.

// Package histogram computes byte-frequency vectors as a parallel
// chunked fold, the same tiling-and-reduce shape muscato_screen uses
// to scan reads concurrently, applied here to a single in-memory
// buffer instead of a stream of sequencing reads.
package histogram

import "sync"

// Size is the number of bins: one per possible byte value.
const Size = 256

// tileSize is the chunk width each goroutine folds independently before
// the pairwise elementwise sum.
const tileSize = 512

// Count returns the 256-bin byte-frequency histogram of buffer. For
// buffers at or below tileSize it folds sequentially; larger buffers
// are split into tiles processed by a bounded worker pool and then
// summed elementwise, an associative reduction independent of tile
// boundaries.
func Count(buffer []byte) [Size]uint64 {
	if len(buffer) <= tileSize {
		return foldTile(buffer)
	}

	ntiles := (len(buffer) + tileSize - 1) / tileSize
	partials := make([][Size]uint64, ntiles)

	workers := ntiles
	if workers > maxWorkers {
		workers = maxWorkers
	}
	jobs := make(chan int, ntiles)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := i * tileSize
				end := start + tileSize
				if end > len(buffer) {
					end = len(buffer)
				}
				partials[i] = foldTile(buffer[start:end])
			}
		}()
	}
	for i := 0; i < ntiles; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var total [Size]uint64
	for _, p := range partials {
		for i := 0; i < Size; i++ {
			total[i] += p[i]
		}
	}
	return total
}

// maxWorkers bounds the tile worker pool; reassigned in tests.
var maxWorkers = 8

func foldTile(buf []byte) [Size]uint64 {
	var h [Size]uint64
	for _, b := range buf {
		h[b]++
	}
	return h
}

// Sum returns the total number of bytes counted in h.
func Sum(h [Size]uint64) uint64 {
	var n uint64
	for _, c := range h {
		n += c
	}
	return n
}
