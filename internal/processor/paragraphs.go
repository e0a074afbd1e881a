// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package processor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/docprep/internal/model"
)

// PageBreak separates pages in converter output. Tika-style extractors
// emit a form feed between pages.
const PageBreak = "\f"

// paragraphBreak separates paragraphs within a page.
const paragraphBreak = "\n\n"

// terminalPunctuation is the set of characters that end a sentence for
// the lowercase-continuation rule.
const terminalPunctuation = `.?!"')]`

// whitespaceRuns matches Unicode whitespace, not just ASCII: OCR output
// routinely separates words with non-breaking spaces.
var whitespaceRuns = regexp.MustCompile(`[\s\p{Z}]+`)

// Options control paragraph reconstruction.
type Options struct {
	// SplitParagraphs enables reconstruction. When false the whole text is
	// emitted as a single document.
	SplitParagraphs bool

	// MergeShort folds paragraphs shorter than 10 characters into the
	// pending paragraph.
	MergeShort bool

	// MergeLowercase folds paragraphs starting with a lowercase letter into
	// the pending paragraph when it does not end in sentence punctuation.
	MergeLowercase bool

	// CleanFunc, if set, is applied to the full text before it is emitted.
	// Only used when SplitParagraphs is false.
	CleanFunc func(string) string
}

// DefaultOptions returns the options used by the Tika conversion path.
func DefaultOptions() Options {
	return Options{
		SplitParagraphs: true,
		MergeShort:      true,
		MergeLowercase:  true,
	}
}

// Reconstruct rebuilds coherent paragraphs from raw extracted text.
//
// The text is split into pages on form feeds and into raw paragraphs on
// blank lines. Paragraphs broken across a page boundary are spliced back
// together, then a single merge pass folds fragments (short paragraphs,
// one-word lines, lowercase continuations) into their predecessor. Each
// emitted document gets its own copy of meta.
//
// The pass is total: any input, including empty or all-whitespace text,
// yields a (possibly empty) document list and never an error.
func Reconstruct(text string, meta map[string]interface{}, opts Options) []model.Document {
	if !opts.SplitParagraphs {
		if opts.CleanFunc != nil {
			text = opts.CleanFunc(text)
		}
		return []model.Document{model.NewDocument(text, model.CopyMeta(meta))}
	}

	paras := splicePages(strings.Split(text, PageBreak))
	return mergeParagraphs(paras, meta, opts)
}

// splicePages flattens pages into one ordered paragraph list, joining the
// tail paragraph of each page onto the head paragraph of the next so that
// page-boundary breaks disappear.
func splicePages(pages []string) []string {
	var paras []string

	// The last paragraph of a page stays pending: it may continue on the
	// next page.
	pageParas := strings.Split(pages[0], paragraphBreak)
	lastPara := pageParas[len(pageParas)-1]
	paras = append(paras, pageParas[:len(pageParas)-1]...)

	for _, page := range pages[1:] {
		pageParas = strings.Split(page, paragraphBreak)
		pageParas[0] = lastPara + " " + pageParas[0]
		lastPara = pageParas[len(pageParas)-1]
		paras = append(paras, pageParas[:len(pageParas)-1]...)
	}
	if lastPara != "" {
		paras = append(paras, lastPara)
	}
	return paras
}

// mergeParagraphs runs the left-to-right merge pass over raw paragraphs.
func mergeParagraphs(paras []string, meta map[string]interface{}, opts Options) []model.Document {
	var docs []model.Document
	lastPara := ""

	flush := func() {
		if lastPara != "" {
			docs = append(docs, model.NewDocument(lastPara, model.CopyMeta(meta)))
		}
	}

	for _, para := range paras {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if shouldMerge(para, lastPara, opts) {
			if lastPara == "" {
				lastPara = para
			} else {
				lastPara += " " + para
			}
			continue
		}
		flush()
		lastPara = para
	}
	flush()

	return docs
}

// shouldMerge decides whether para is folded into the pending paragraph.
// The decision looks only at the incoming paragraph, never at the length
// of the accumulator.
func shouldMerge(para, lastPara string, opts Options) bool {
	if opts.MergeShort && utf8.RuneCountInString(para) < 10 {
		return true
	}
	// Fewer than two whitespace runs means at most two words.
	if len(whitespaceRuns.FindAllString(para, -1)) < 2 {
		return true
	}
	if opts.MergeLowercase && startsLower(para) && lastPara != "" && !endsInPunctuation(lastPara) {
		return true
	}
	return false
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}

func endsInPunctuation(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return strings.ContainsRune(terminalPunctuation, r)
}
