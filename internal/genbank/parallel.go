package genbank

import (
	"runtime"
	"sync"
)

// WorkItem is one GenBank file queued for parsing. Seq is its position in
// the caller's file list.
type WorkItem struct {
	Seq  int
	Path string
}

// WorkResult is the parsed feature table of one file. Features is nil,
// with a nil Err, when the file has no source feature with an organism.
type WorkResult struct {
	Seq      int
	Path     string
	Features *Features
	Err      error
}

// ParallelParse reads the feature tables of the queued files on a pool of
// workers (runtime.NumCPU() when workers <= 0). A worker opens, parses and
// closes one file at a time, so each file gets its own Cursor.
//
// Results arrive in completion order. The channel is closed once the item
// channel is drained and every open file has been parsed.
func (p *FileParser) ParallelParse(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range items {
				features, err := p.ParseFile(item.Path)
				results <- WorkResult{Seq: item.Seq, Path: item.Path, Features: features, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// OrderedCollect hands results to fn in file-list order, holding back files
// that finished before their predecessors. If fn fails, the remaining
// results are discarded so the parsing workers can exit, and the error is
// returned.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	held := make(map[int]WorkResult)
	next := 0

	for r := range results {
		held[r.Seq] = r
		for ready, ok := held[next]; ok; ready, ok = held[next] {
			delete(held, next)
			next++
			if err := fn(ready); err != nil {
				for range results {
				}
				return err
			}
		}
	}
	return nil
}

// PathItems queues one WorkItem per path, numbered in list order.
func PathItems(paths []string) <-chan WorkItem {
	items := make(chan WorkItem, len(paths))
	for seq, path := range paths {
		items <- WorkItem{Seq: seq, Path: path}
	}
	close(items)
	return items
}
