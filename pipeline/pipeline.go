// Package pipeline orchestrates the full PDF/DOCX extraction pipeline:
// geometry or paragraph extraction, table detection, semantic tagging,
// style normalization and schema assembly, mirroring fast_vision's
// process_pdf/process_docx chain (§5).
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tsawler/fastvision/assemble"
	"github.com/tsawler/fastvision/docx"
	"github.com/tsawler/fastvision/geometry"
	"github.com/tsawler/fastvision/match"
	"github.com/tsawler/fastvision/office"
	"github.com/tsawler/fastvision/reader"
	"github.com/tsawler/fastvision/schema"
	"github.com/tsawler/fastvision/styles"
	"github.com/tsawler/fastvision/tablesx"
	"github.com/tsawler/fastvision/tagger"
)

// docxBatchSize/docxTruncateAt mirror _refine_docx_blocks_via_api's
// BATCH_SIZE/TEXT_TRUNCATE; pdfTruncateAt mirrors api_tagger's
// per-page truncation.
const (
	docxBatchSize  = 50
	docxTruncateAt = 80
	pdfTruncateAt  = 120
	maxWorkers     = 8
)

// ProgressFunc receives a monotonically increasing completion fraction in
// [0,1] and a short human-readable status message.
type ProgressFunc func(pct float64, msg string)

// Options configures a Process call. Tagger is optional: when nil, or
// when UseVision is false, blocks are classified with the deterministic
// heuristic instead of a vision/text backend.
type Options struct {
	UseVision bool
	PageRange string
	Tagger    tagger.VisionTagger
	// IDs defaults to schema.RandomIDGenerator, which is concurrency-safe.
	// A schema.SequentialIDGenerator is only safe here for a single-page
	// PDF or a DOCX input, since PDF pages build geometry concurrently.
	IDs      schema.IDGenerator
	Progress ProgressFunc
}

func (o Options) ids() schema.IDGenerator {
	if o.IDs != nil {
		return o.IDs
	}
	return schema.RandomIDGenerator{}
}

func (o Options) progress(pct float64, msg string) {
	if o.Progress != nil {
		o.Progress(pct, msg)
	}
}

// Process auto-detects the input format from its extension and runs the
// matching extraction pipeline.
func Process(ctx context.Context, path string, opts Options) (*schema.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return processPDF(ctx, path, opts)
	case ".docx", ".doc":
		return processDOCX(ctx, path, opts)
	default:
		return nil, newError(KindUnsupportedInput, fmt.Sprintf("unsupported file format %q (supported: .pdf, .docx)", filepath.Ext(path)), nil)
	}
}

// ── PDF pipeline ─────────────────────────────────────────────────────

type pdfPageWork struct {
	result geometry.PageResult
	tables []schema.Table
}

func processPDF(ctx context.Context, path string, opts Options) (*schema.Document, error) {
	ids := opts.ids()
	docID := uuid.NewString()

	opts.progress(0.05, "Opening PDF...")
	r, err := reader.Open(path)
	if err != nil {
		return nil, newError(KindIOFailure, "failed to open PDF", err)
	}
	defer r.Close()

	total, err := r.PageCount()
	if err != nil {
		return nil, newError(KindPageExtractionFailure, "failed to read page count", err)
	}

	pageNumbers := []int{}
	if opts.PageRange != "" {
		pageNumbers = parsePageRange(opts.PageRange, total)
	} else {
		for p := 1; p <= total; p++ {
			pageNumbers = append(pageNumbers, p)
		}
	}
	if len(pageNumbers) == 0 {
		return nil, newError(KindPageExtractionFailure, "no pages selected", nil)
	}

	opts.progress(0.08, fmt.Sprintf("Building geometry for %d pages...", len(pageNumbers)))
	work := make([]pdfPageWork, len(pageNumbers))

	workers := maxWorkers
	if workers > len(pageNumbers) {
		workers = len(pageNumbers)
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	for i, pageNum := range pageNumbers {
		wg.Add(1)
		sem <- struct{}{}
		go func(i, pageNum int) {
			defer wg.Done()
			defer func() { <-sem }()

			page, err := r.GetPage(pageNum - 1)
			if err != nil {
				return
			}
			pr := geometry.ExtractPage(r, page, pageNum, ids)

			var tables []schema.Table
			if content, err := geometry.PageContentBytes(r, page); err == nil {
				for _, region := range tablesx.Detect(content) {
					tables = append(tables, tablesx.Build(region, pr.Blocks, pageNum, ids))
				}
			}
			pr.Blocks = tablesx.Dedup(pr.Blocks, tables)

			mu.Lock()
			work[i] = pdfPageWork{result: pr, tables: tables}
			done++
			opts.progress(0.08+0.27*float64(done)/float64(len(pageNumbers)), fmt.Sprintf("Geometry built for %d/%d pages...", done, len(pageNumbers)))
			mu.Unlock()
		}(i, pageNum)
	}
	wg.Wait()

	if opts.UseVision && opts.Tagger != nil {
		opts.progress(0.40, "Sending pages to the tagging backend...")
		tagPDFPages(ctx, work, opts)
		opts.progress(0.82, "Matching geometry blocks to semantic tags...")
	} else {
		opts.progress(0.50, "Classifying blocks with heuristics (no tagging backend)...")
		for i := range work {
			applyHeuristic(work[i].result.Blocks)
		}
	}

	opts.progress(0.88, "Normalizing styles...")
	styleIDs, styleTable := normalizeBlockStyles(blockStyleInputsPDF(work))
	cursor := 0

	pageInputs := make([]assemble.PageInput, len(work))
	for i, w := range work {
		blocks := make([]assemble.BlockInput, len(w.result.Blocks))
		for j, b := range w.result.Blocks {
			blocks[j] = pdfBlockToInput(b, styleIDs[cursor])
			cursor++
		}
		pageInputs[i] = assemble.PageInput{
			PageNumber: w.result.PageNumber,
			Width:      w.result.Width,
			Height:     w.result.Height,
			Blocks:     blocks,
			Tables:     w.tables,
		}
	}

	opts.progress(0.93, "Assembling document...")
	doc := assemble.Assemble(docID, schema.SourcePDF, pageInputs, styleTable)
	if err := assemble.Validate(doc); err != nil {
		return nil, newError(KindSchemaValidationFailure, "assembled document failed validation", err)
	}

	opts.progress(1.0, "Done!")
	return doc, nil
}

func tagPDFPages(ctx context.Context, work []pdfPageWork, opts Options) {
	workers := maxWorkers
	if workers > len(work) {
		workers = len(work)
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := range work {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			blocks := work[i].result.Blocks
			if len(blocks) == 0 {
				return
			}
			summaries := make([]tagger.BlockSummary, len(blocks))
			for j, b := range blocks {
				summaries[j] = tagger.BlockSummary{Index: j, Text: b.Text, Font: b.FontName, Size: b.Size}
			}

			tags := tagger.Dispatch(ctx, opts.Tagger, summaries, nil, len(summaries), pdfTruncateAt, 1, nil)
			if len(tags) == 0 {
				tags = tagger.Heuristic(summaries)
			}
			applyTagsToBlocks(blocks, tags)
		}(i)
	}
	wg.Wait()
}

func applyHeuristic(blocks []geometry.Block) {
	summaries := make([]tagger.BlockSummary, len(blocks))
	for i, b := range blocks {
		summaries[i] = tagger.BlockSummary{Index: i, Text: b.Text, Font: b.FontName, Size: b.Size}
	}
	applyTagsToBlocks(blocks, tagger.Heuristic(summaries))
}

// applyTagsToBlocks matches blocks to their tags (direct index then fuzzy
// text fallback) and writes the result onto each block in place.
func applyTagsToBlocks(blocks []geometry.Block, tags []tagger.Tag) {
	blockTexts := make([]string, len(blocks))
	for i, b := range blocks {
		blockTexts[i] = b.Text
	}
	results := match.BlocksToTags(blockTexts, tags)
	for i := range blocks {
		r := results[i]
		blocks[i].BlockType = schema.ParseBlockType(r.BlockType)
		blocks[i].Role = schema.ParseRoleType(r.Role)
		blocks[i].ReadingOrder = r.ReadingOrder
		blocks[i].Rhetoric = toSchemaRhetoric(r.Rhetoric)
		blocks[i].RhetoricFeatures = toSchemaRhetoricFeatures(r.RhetoricFeatures)
	}
}

func toSchemaRhetoric(r *tagger.Rhetoric) *schema.Rhetoric {
	if r == nil {
		return nil
	}
	return &schema.Rhetoric{Tone: r.Tone, Voice: r.Voice, Modality: r.Modality, Tense: r.Tense, Domain: r.Domain}
}

func toSchemaRhetoricFeatures(r *tagger.RhetoricFeatures) *schema.RhetoricFeatures {
	if r == nil {
		return nil
	}
	return &schema.RhetoricFeatures{
		AvgSentenceLength: r.AvgSentenceLength,
		ModalDensity:      r.ModalDensity,
		PassiveRatio:      r.PassiveRatio,
		LegalTermDensity:  r.LegalTermDensity,
	}
}

func blockStyleInputsPDF(work []pdfPageWork) []styles.Input {
	var out []styles.Input
	for _, w := range work {
		for _, b := range w.result.Blocks {
			out = append(out, styles.Input{FontName: b.FontName, Size: b.Size, Color: b.Color})
		}
	}
	return out
}

func pdfBlockToInput(b geometry.Block, styleID string) assemble.BlockInput {
	words := make([]assemble.WordInput, len(b.Words))
	for i, w := range b.Words {
		words[i] = assemble.WordInput{Text: w.Text, Bbox: w.Bbox}
	}
	return assemble.BlockInput{
		ID:               b.ID,
		Text:             b.Text,
		Bbox:             b.Bbox,
		Words:            words,
		BlockType:        b.BlockType.String(),
		Role:             b.Role.String(),
		ReadingOrder:     b.ReadingOrder,
		StyleID:          styleID,
		Rhetoric:         b.Rhetoric,
		RhetoricFeatures: b.RhetoricFeatures,
	}
}

func normalizeBlockStyles(inputs []styles.Input) ([]string, map[string]schema.Style) {
	return styles.Normalize(inputs)
}

// ── DOCX pipeline ────────────────────────────────────────────────────

type docxBlockRef struct{ page, block int }

func processDOCX(ctx context.Context, path string, opts Options) (*schema.Document, error) {
	ids := opts.ids()
	docID := uuid.NewString()

	opts.progress(0.05, "Extracting paragraphs and tables from DOCX...")
	r, err := docx.Open(path)
	if err != nil {
		return nil, newError(KindIOFailure, "failed to open DOCX", err)
	}
	defer r.Close()

	pages, tables := office.Extract(r, ids)

	tablesByPage := make(map[int][]schema.Table)
	for _, t := range tables {
		tablesByPage[t.Page] = append(tablesByPage[t.Page], t)
	}

	// Default reading order is each block's own position within its page;
	// the tagging pass below overwrites it per-block when a tag supplies
	// one, matching the original's behavior of only ever refining, never
	// clearing, a block's classification.
	flat := make([]docxBlockRef, 0)
	for pi, p := range pages {
		for bi := range p.Blocks {
			pages[pi].Blocks[bi].ReadingOrder = bi
			flat = append(flat, docxBlockRef{page: pi, block: bi})
		}
	}

	if opts.UseVision && len(flat) > 0 && opts.Tagger != nil {
		opts.progress(0.35, "Sending blocks to the tagging backend...")
		summaries := make([]tagger.BlockSummary, len(flat))
		for i, ref := range flat {
			b := pages[ref.page].Blocks[ref.block]
			summaries[i] = tagger.BlockSummary{Index: i, Text: b.Text, Font: b.FontName, Size: b.Size}
		}
		tags := tagger.Dispatch(ctx, opts.Tagger, summaries, nil, docxBatchSize, docxTruncateAt, maxWorkers, func(done, total int) {
			opts.progress(0.35+0.45*float64(done)/float64(total), fmt.Sprintf("Received batch %d/%d", done, total))
		})
		for _, tag := range tags {
			if tag.BlockIndex < 0 || tag.BlockIndex >= len(flat) {
				continue
			}
			ref := flat[tag.BlockIndex]
			blk := &pages[ref.page].Blocks[ref.block]
			if tag.BlockType != "" {
				blk.BlockType = schema.ParseBlockType(tag.BlockType)
			}
			if tag.Role != "" {
				blk.Role = schema.ParseRoleType(tag.Role)
			}
			blk.ReadingOrder = tag.ReadingOrder
			blk.Rhetoric = toSchemaRhetoric(tag.Rhetoric)
			blk.RhetoricFeatures = toSchemaRhetoricFeatures(tag.RhetoricFeatures)
		}
	} else {
		opts.progress(0.50, "Using DOCX style-based classification (no tagging backend)...")
	}

	opts.progress(0.85, "Normalizing styles...")
	var styleInputs []styles.Input
	for _, p := range pages {
		for _, b := range p.Blocks {
			styleInputs = append(styleInputs, styles.Input{FontName: b.FontName, Size: b.Size, Color: b.Color})
		}
	}
	styleIDs, styleTable := styles.Normalize(styleInputs)

	cursor := 0
	pageInputs := make([]assemble.PageInput, len(pages))
	for pi, p := range pages {
		blocks := make([]assemble.BlockInput, len(p.Blocks))
		for bi, b := range p.Blocks {
			words := make([]assemble.WordInput, len(b.Words))
			for wi, w := range b.Words {
				words[wi] = assemble.WordInput{Text: w.Text, Bbox: w.Bbox}
			}
			blocks[bi] = assemble.BlockInput{
				ID:               b.ID,
				Text:             b.Text,
				Bbox:             b.Bbox,
				Words:            words,
				BlockType:        b.BlockType.String(),
				Role:             b.Role.String(),
				ReadingOrder:     b.ReadingOrder,
				StyleID:          styleIDs[cursor],
				Rhetoric:         b.Rhetoric,
				RhetoricFeatures: b.RhetoricFeatures,
			}
			cursor++
		}
		pageInputs[pi] = assemble.PageInput{
			PageNumber: p.PageNumber,
			Width:      p.Width,
			Height:     p.Height,
			Blocks:     blocks,
			Tables:     tablesByPage[p.PageNumber],
		}
	}

	opts.progress(0.92, "Assembling document...")
	doc := assemble.Assemble(docID, schema.SourceDOCX, pageInputs, styleTable)
	if err := assemble.Validate(doc); err != nil {
		return nil, newError(KindSchemaValidationFailure, "assembled document failed validation", err)
	}

	opts.progress(1.0, "Done!")
	return doc, nil
}
