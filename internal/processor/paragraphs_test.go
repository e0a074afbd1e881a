// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package processor

import (
	"strings"
	"testing"
)

func docTexts(t *testing.T, text string, opts Options) []string {
	t.Helper()
	docs := Reconstruct(text, map[string]interface{}{"name": "test.pdf"}, opts)
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Text == "" {
			t.Errorf("Reconstruct emitted an empty document")
		}
		out = append(out, d.Text)
	}
	return out
}

func TestReconstruct_MergesContinuations(t *testing.T) {
	text := "Hello world.\n\nthis continues.\n\nA New Topic Here Clearly."

	got := docTexts(t, text, DefaultOptions())
	want := []string{
		"Hello world. this continues.",
		"A New Topic Here Clearly.",
	}

	if len(got) != len(want) {
		t.Fatalf("Expected %d documents, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Document %d mismatch. Expected: %q, Got: %q", i, want[i], got[i])
		}
	}
}

func TestReconstruct_SplicesAcrossPages(t *testing.T) {
	page1 := "Opening Statement Goes Here Now.\n\nend of pa"
	page2 := "ragraph one continues fine.\n\nSecond paragraph has enough words."
	text := page1 + PageBreak + page2

	got := docTexts(t, text, DefaultOptions())
	want := []string{
		"Opening Statement Goes Here Now.",
		"end of pa ragraph one continues fine.",
		"Second paragraph has enough words.",
	}

	if len(got) != len(want) {
		t.Fatalf("Expected %d documents, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Document %d mismatch. Expected: %q, Got: %q", i, want[i], got[i])
		}
	}
}

func TestReconstruct_OneParagraphPerPage(t *testing.T) {
	// A paragraph that spans three pages with no blank lines keeps
	// carrying forward and is emitted once.
	text := "alpha beta gamma delta" + PageBreak + "continues on second page" + PageBreak + "And Ends Here Now."

	got := docTexts(t, text, DefaultOptions())
	if len(got) != 1 {
		t.Fatalf("Expected 1 document, got %d: %q", len(got), got)
	}
	want := "alpha beta gamma delta continues on second page And Ends Here Now."
	if got[0] != want {
		t.Errorf("Expected: %q, Got: %q", want, got[0])
	}
}

func TestReconstruct_WhitespaceOnly(t *testing.T) {
	for _, text := range []string{"", "   \n\n  \n\n", "\f\f", " \n\n \f \n\n "} {
		got := docTexts(t, text, DefaultOptions())
		if len(got) != 0 {
			t.Errorf("Expected 0 documents for %q, got %d: %q", text, len(got), got)
		}
	}
}

func TestReconstruct_NoSplit(t *testing.T) {
	text := "Anything at all.\n\n\feven across pages\n\n"
	opts := Options{SplitParagraphs: false}

	got := docTexts(t, text, opts)
	if len(got) != 1 {
		t.Fatalf("Expected exactly 1 document, got %d", len(got))
	}
	if got[0] != text {
		t.Errorf("Text should pass through unmodified. Expected: %q, Got: %q", text, got[0])
	}

	opts.CleanFunc = strings.TrimSpace
	got = docTexts(t, text, opts)
	if got[0] != strings.TrimSpace(text) {
		t.Errorf("CleanFunc not applied. Got: %q", got[0])
	}
}

func TestReconstruct_ShortParagraphMerge(t *testing.T) {
	// "a b c d" is under 10 characters but has three whitespace runs, so
	// only the short rule can merge it.
	text := "A Proper Opening Paragraph With Words.\n\na b c d\n\nAnother Full Paragraph With Many Words."

	opts := DefaultOptions()
	got := docTexts(t, text, opts)
	if len(got) != 2 {
		t.Fatalf("Expected 2 documents with MergeShort, got %d: %q", len(got), got)
	}
	if got[0] != "A Proper Opening Paragraph With Words. a b c d" {
		t.Errorf("Short paragraph not merged into predecessor. Got: %q", got[0])
	}

	opts.MergeShort = false
	got = docTexts(t, text, opts)
	if len(got) != 3 {
		t.Fatalf("Expected 3 documents without MergeShort, got %d: %q", len(got), got)
	}
	if got[1] != "a b c d" {
		t.Errorf("Expected standalone short paragraph, got: %q", got[1])
	}
}

func TestReconstruct_ShortParagraphMergeMultibyte(t *testing.T) {
	// "đi ăn cơm" is 9 characters but 12 bytes; the short rule counts
	// characters, so it still merges.
	text := "A Proper Opening Paragraph Ends Here.\n\nđi ăn cơm\n\nAnother Full Paragraph With Many Words."

	got := docTexts(t, text, DefaultOptions())
	if len(got) != 2 {
		t.Fatalf("Expected 2 documents (short paragraph merged), got %d: %q", len(got), got)
	}
	if got[0] != "A Proper Opening Paragraph Ends Here. đi ăn cơm" {
		t.Errorf("Multibyte short paragraph not merged into predecessor. Got: %q", got[0])
	}

	opts := DefaultOptions()
	opts.MergeShort = false
	got = docTexts(t, text, opts)
	if len(got) != 3 {
		t.Fatalf("Expected 3 documents without MergeShort, got %d: %q", len(got), got)
	}
}

func TestReconstruct_UnicodeWhitespaceWordCount(t *testing.T) {
	// Words separated by non-breaking spaces still count as words, so a
	// long enough paragraph stands alone.
	heading := "Gi\u00e1\u00a0tr\u1ecb\u00a0c\u1ee7a\u00a0\u0111o\u1ea1n\u00a0n\u00e0y."
	text := "First Proper Paragraph Ends With Punctuation.\n\n" + heading + "\n\nAnother Full Paragraph With Many Words."

	got := docTexts(t, text, DefaultOptions())
	if len(got) != 3 {
		t.Fatalf("Expected 3 documents, got %d: %q", len(got), got)
	}
	if got[1] != heading {
		t.Errorf("NBSP-separated paragraph should stand alone. Got: %q", got[1])
	}
}

func TestReconstruct_WordCountMerge(t *testing.T) {
	// Two-word paragraphs always merge regardless of options.
	text := "A Proper Opening Paragraph With Words.\n\nChapter Heading\n\nAnother Full Paragraph With Many Words."

	opts := Options{SplitParagraphs: true}
	got := docTexts(t, text, opts)
	if len(got) != 2 {
		t.Fatalf("Expected 2 documents, got %d: %q", len(got), got)
	}
	if got[0] != "A Proper Opening Paragraph With Words. Chapter Heading" {
		t.Errorf("Two-word paragraph not merged. Got: %q", got[0])
	}
}

func TestReconstruct_LowercaseContinuation(t *testing.T) {
	text := "This sentence has no terminal punctuation yet\n\ncontinues in the following paragraph nicely.\n\nNext Proper Paragraph Is Also Here."

	opts := DefaultOptions()
	got := docTexts(t, text, opts)
	if len(got) != 2 {
		t.Fatalf("Expected 2 documents with MergeLowercase, got %d: %q", len(got), got)
	}
	if got[0] != "This sentence has no terminal punctuation yet continues in the following paragraph nicely." {
		t.Errorf("Lowercase continuation not merged. Got: %q", got[0])
	}

	opts.MergeLowercase = false
	got = docTexts(t, text, opts)
	if len(got) != 3 {
		t.Fatalf("Expected 3 documents without MergeLowercase, got %d: %q", len(got), got)
	}
}

func TestReconstruct_NoLowercaseMergeAfterPunctuation(t *testing.T) {
	text := "This sentence ends with a period.\n\nbut this one still starts lowercase anyway.\n\nAnd A Third Paragraph Exists Too."

	got := docTexts(t, text, DefaultOptions())
	if len(got) != 3 {
		t.Fatalf("Expected 3 documents, got %d: %q", len(got), got)
	}
	if got[1] != "but this one still starts lowercase anyway." {
		t.Errorf("Paragraph after terminal punctuation should stand alone. Got: %q", got[1])
	}
}

func TestReconstruct_FirstParagraphLowercase(t *testing.T) {
	// Nothing precedes the first paragraph, so the lowercase rule cannot
	// fire on it.
	text := "lowercase opening paragraph with words here.\n\nNext Proper Paragraph Is Also Here."

	got := docTexts(t, text, DefaultOptions())
	if len(got) != 2 {
		t.Fatalf("Expected 2 documents, got %d: %q", len(got), got)
	}
	if got[0] != "lowercase opening paragraph with words here." {
		t.Errorf("Expected first paragraph unchanged, got: %q", got[0])
	}
}

func TestReconstruct_PreservesContent(t *testing.T) {
	text := "First Paragraph With Several Words Inside.\n\nshort\n\nanother lowercase continuation follows here now\f" +
		"and it keeps going on the second page.\n\nFinal Proper Paragraph Closes The Document."

	docs := Reconstruct(text, nil, DefaultOptions())

	strip := func(s string) string {
		return strings.Join(strings.Fields(s), "")
	}
	var joined strings.Builder
	for _, d := range docs {
		joined.WriteString(d.Text)
		joined.WriteString(" ")
	}
	if strip(joined.String()) != strip(text) {
		t.Errorf("Output does not preserve input content.\nInput:  %q\nOutput: %q", strip(text), strip(joined.String()))
	}
}

func TestReconstruct_MetaCopied(t *testing.T) {
	meta := map[string]interface{}{"name": "source.pdf"}
	text := "First Proper Paragraph With Words Here.\n\nSecond Proper Paragraph With Words Here."

	docs := Reconstruct(text, meta, DefaultOptions())
	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(docs))
	}
	for _, d := range docs {
		if d.Meta["name"] != "source.pdf" {
			t.Errorf("Expected meta name 'source.pdf', got %v", d.Meta["name"])
		}
		if d.ID == "" {
			t.Errorf("Expected document id to be set")
		}
	}

	docs[0].Meta["name"] = "changed"
	if docs[1].Meta["name"] != "source.pdf" {
		t.Errorf("Documents share metadata maps; expected independent copies")
	}
	if meta["name"] != "source.pdf" {
		t.Errorf("Caller metadata was mutated")
	}
}
