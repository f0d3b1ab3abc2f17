package tagger

import (
	"context"
	"sync"

	"github.com/tsawler/fastvision/jsonutil"
)

// batchSummary is the compact wire shape sent to a backend in a batch
// request: the same field names the Python original used ("index", "text",
// "font", "size"), so a test can assert the prompt's JSON array shape.
type batchSummary struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Font  string  `json:"font"`
	Size  float64 `json:"size"`
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func toBatchSummaries(blocks []BlockSummary, truncateAt int) []batchSummary {
	out := make([]batchSummary, len(blocks))
	for i, b := range blocks {
		out[i] = batchSummary{Index: i, Text: truncate(b.Text, truncateAt), Font: b.Font, Size: b.Size}
	}
	return out
}

// EncodeBatch serializes a batch of blocks to the compact JSON array shape
// the prompt embeds, truncating text to truncateAt runes.
func EncodeBatch(blocks []BlockSummary, truncateAt int) (string, error) {
	data, err := jsonutil.Marshal(toBatchSummaries(blocks, truncateAt))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Dispatch splits blocks into size-bounded batches and tags each
// concurrently, bounded at maxWorkers in-flight requests. A batch whose
// backend call fails falls back to the heuristic classifier for that
// batch only, so a single bad batch never aborts the rest (§7
// TaggerFailure is non-fatal per item).
func Dispatch(ctx context.Context, t VisionTagger, blocks []BlockSummary, pageImage []byte, batchSize, truncateAt, maxWorkers int, progress func(done, total int)) []Tag {
	if len(blocks) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = len(blocks)
	}

	var batches [][]BlockSummary
	for start := 0; start < len(blocks); start += batchSize {
		end := start + batchSize
		if end > len(blocks) {
			end = len(blocks)
		}
		batches = append(batches, blocks[start:end])
	}

	results := make([][]Tag, len(batches))

	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	for i, batch := range batches {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, batch []BlockSummary) {
			defer wg.Done()
			defer func() { <-sem }()

			summaries := make([]BlockSummary, len(batch))
			for j, b := range batch {
				summaries[j] = BlockSummary{Index: j, Text: truncate(b.Text, truncateAt), Font: b.Font, Size: b.Size}
			}

			tags, err := t.TagBatch(ctx, pageImage, summaries)
			if err != nil {
				tags = Heuristic(summaries)
			}
			for k := range tags {
				if idx := tags[k].BlockIndex; idx >= 0 && idx < len(summaries) {
					tags[k].SourceText = summaries[idx].Text
				}
			}

			mu.Lock()
			results[i] = tags
			done++
			if progress != nil {
				progress(done, len(batches))
			}
			mu.Unlock()
		}(i, batch)
	}
	wg.Wait()

	var out []Tag
	offset := 0
	for i, batch := range batches {
		for _, tag := range results[i] {
			tag.BlockIndex += offset
			out = append(out, tag)
		}
		offset += len(batch)
	}
	return out
}
