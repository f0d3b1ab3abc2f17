// Package match transfers semantic tags from a vision/text tagger batch
// onto geometry-sourced blocks, via direct index matching first and fuzzy
// text similarity second, following §4.8.
package match

import (
	"github.com/tsawler/fastvision/tagger"
)

// fuzzyThreshold is the minimum text-similarity ratio for an unmatched
// block to adopt a tag in the fuzzy pass.
const fuzzyThreshold = 0.4

// fuzzyCompareLen bounds how much text is compared per fuzzy match, since
// long blocks add cost without adding discriminating power.
const fuzzyCompareLen = 200

// Result is a block's final classification, to be applied onto its schema
// fields by the assembler.
type Result struct {
	BlockType        string
	Role             string
	ReadingOrder     int
	Rhetoric         *tagger.Rhetoric
	RhetoricFeatures *tagger.RhetoricFeatures
}

// BlocksToTags matches each block's text to a tagger.Tag. Blocks not
// covered by any tag (empty tags, index miscounts the fuzzy pass can't
// rescue) get the positional default: paragraph/paragraph/its own index.
func BlocksToTags(blockTexts []string, tags []tagger.Tag) []Result {
	results := make([]Result, len(blockTexts))
	for i := range results {
		results[i] = Result{BlockType: "paragraph", Role: "paragraph", ReadingOrder: i}
	}
	if len(tags) == 0 {
		return results
	}

	indexMap := make(map[int]tagger.Tag, len(tags))
	for _, tag := range tags {
		indexMap[tag.BlockIndex] = tag
	}

	matched := make([]bool, len(blockTexts))
	for i := range blockTexts {
		if tag, ok := indexMap[i]; ok {
			results[i] = applyTag(tag)
			matched[i] = true
		}
	}

	var unmatchedIdx []int
	for i, ok := range matched {
		if !ok {
			unmatchedIdx = append(unmatchedIdx, i)
		}
	}
	var remainingTags []tagger.Tag
	for _, tag := range tags {
		if tag.BlockIndex < 0 || tag.BlockIndex >= len(blockTexts) || !matched[tag.BlockIndex] {
			remainingTags = append(remainingTags, tag)
		}
	}

	for _, i := range unmatchedIdx {
		best, bestIdx := findBestTag(blockTexts[i], remainingTags)
		if bestIdx < 0 {
			continue
		}
		results[i] = applyTag(best)
		remainingTags = append(remainingTags[:bestIdx], remainingTags[bestIdx+1:]...)
	}

	return results
}

func applyTag(tag tagger.Tag) Result {
	blockType := tag.BlockType
	if blockType == "" {
		blockType = "paragraph"
	}
	role := tag.Role
	if role == "" {
		role = "paragraph"
	}
	return Result{
		BlockType:        blockType,
		Role:             role,
		ReadingOrder:     tag.ReadingOrder,
		Rhetoric:         tag.Rhetoric,
		RhetoricFeatures: tag.RhetoricFeatures,
	}
}

func findBestTag(blockText string, tags []tagger.Tag) (tagger.Tag, int) {
	if blockText == "" {
		return tagger.Tag{}, -1
	}
	bestScore := 0.0
	bestIdx := -1
	for i, tag := range tags {
		if tag.SourceText == "" {
			continue
		}
		score := similarity(truncateRunes(blockText, fuzzyCompareLen), truncateRunes(tag.SourceText, fuzzyCompareLen))
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestScore > fuzzyThreshold {
		return tags[bestIdx], bestIdx
	}
	return tagger.Tag{}, -1
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// similarity computes a SequenceMatcher-ratio-equivalent score: twice the
// length of the longest common subsequence over the sum of both lengths.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	lcs := longestCommonSubsequence(ra, rb)
	return 2.0 * float64(lcs) / float64(len(ra)+len(rb))
}

func longestCommonSubsequence(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
