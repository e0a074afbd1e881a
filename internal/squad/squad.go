// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package squad reads SQuAD-style QA datasets into Documents and Labels
// for indexing and evaluation.
package squad

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/docprep/internal/logger"
	"github.com/docprep/internal/model"
)

// maxLineSize bounds a single JSONL document line (64 MB).
const maxLineSize = 64 << 20

type squadFile struct {
	Data []json.RawMessage `json:"data"`
}

type squadDocument struct {
	Title      string           `json:"title"`
	Paragraphs []squadParagraph `json:"paragraphs"`
}

type squadParagraph struct {
	Context string    `json:"context"`
	QAs     []squadQA `json:"qas"`
}

type squadQA struct {
	Question     string        `json:"question"`
	IsImpossible bool          `json:"is_impossible"`
	Answers      []squadAnswer `json:"answers"`
}

type squadAnswer struct {
	Text        string `json:"text"`
	AnswerStart int    `json:"answer_start"`
}

// EvalDataFromJSON reads Documents and Labels from a SQuAD-format file.
// maxDocs limits how many documents are loaded; zero loads everything.
func EvalDataFromJSON(filename string, maxDocs int) ([]model.Document, []model.Label, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var file squadFile
	if err := sonic.Unmarshal(raw, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	if len(file.Data) > 0 && !hasTitle(file.Data[0]) {
		logger.Warnf("no title information found for documents in QA file: %s", filename)
	}

	var docs []model.Document
	var labels []model.Label
	for _, entry := range file.Data {
		if maxDocs > 0 && len(docs) > maxDocs {
			break
		}
		curDocs, curLabels, err := extractDocsAndLabels(entry)
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, curDocs...)
		labels = append(labels, curLabels...)
	}
	return docs, labels, nil
}

// BatchFunc receives one batch of documents and their labels.
type BatchFunc func(docs []model.Document, labels []model.Label) error

// EvalDataFromJSONL reads a SQuAD dataset in jsonl format (one document
// per line) and delivers batches of batchSize documents to fn. A
// batchSize of zero delivers everything in a single batch. maxDocs as in
// EvalDataFromJSON.
func EvalDataFromJSONL(filename string, batchSize, maxDocs int, fn BatchFunc) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	var docs []model.Document
	var labels []model.Label
	loaded := 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64<<10), maxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if maxDocs > 0 && loaded > maxDocs {
			break
		}
		curDocs, curLabels, err := extractDocsAndLabels(line)
		if err != nil {
			return err
		}
		docs = append(docs, curDocs...)
		labels = append(labels, curLabels...)
		loaded += len(curDocs)

		if batchSize > 0 && len(docs) >= batchSize {
			if err := fn(docs, labels); err != nil {
				return err
			}
			docs = nil
			labels = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if len(docs) > 0 {
		return fn(docs, labels)
	}
	return nil
}

// JSONToJSONL converts a SQuAD json file into jsonl format with one
// document per line.
func JSONToJSONL(squadFile, outputFile string) error {
	docs, err := readDataEntries(squadFile)
	if err != nil {
		return err
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputFile, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for _, doc := range docs {
		line, err := sonic.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to serialize document: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputFile, err)
		}
	}
	return w.Flush()
}

func readDataEntries(filename string) ([]interface{}, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	var file struct {
		Data []interface{} `json:"data"`
	}
	if err := sonic.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return file.Data, nil
}

// extractDocsAndLabels builds one Document per paragraph context, with
// metadata merged from the paragraph level and the document level, plus
// gold labels from the qas annotations.
func extractDocsAndLabels(entry []byte) ([]model.Document, []model.Label, error) {
	var doc squadDocument
	if err := sonic.Unmarshal(entry, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse dataset document: %w", err)
	}

	// Decode again loosely to pick up extra fields the schema does not name.
	var loose map[string]interface{}
	if err := sonic.Unmarshal(entry, &loose); err != nil {
		return nil, nil, fmt.Errorf("failed to parse dataset document: %w", err)
	}
	docMeta := extraFields(loose, "paragraphs", "title")
	looseParas, _ := loose["paragraphs"].([]interface{})

	var docs []model.Document
	var labels []model.Label

	for i, para := range doc.Paragraphs {
		meta := map[string]interface{}{}
		if doc.Title != "" {
			meta["name"] = doc.Title
		} else {
			meta["name"] = nil
		}
		if i < len(looseParas) {
			if pm, ok := looseParas[i].(map[string]interface{}); ok {
				for k, v := range extraFields(pm, "qas", "context") {
					meta[k] = v
				}
			}
		}
		for k, v := range docMeta {
			meta[k] = v
		}

		curDoc := model.NewDocument(para.Context, meta)
		docs = append(docs, curDoc)

		for _, qa := range para.QAs {
			if len(qa.Answers) > 0 {
				for _, answer := range qa.Answers {
					labels = append(labels, model.Label{
						Question:          qa.Question,
						Answer:            answer.Text,
						IsCorrectAnswer:   true,
						IsCorrectDocument: true,
						DocumentID:        curDoc.ID,
						OffsetStartInDoc:  answer.AnswerStart,
						NoAnswer:          qa.IsImpossible,
						Origin:            "gold_label",
					})
				}
			} else {
				labels = append(labels, model.Label{
					Question:          qa.Question,
					Answer:            "",
					IsCorrectAnswer:   true,
					IsCorrectDocument: true,
					DocumentID:        curDoc.ID,
					OffsetStartInDoc:  0,
					NoAnswer:          qa.IsImpossible,
					Origin:            "gold_label",
				})
			}
		}
	}
	return docs, labels, nil
}

func extraFields(m map[string]interface{}, exclude ...string) map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range m {
		skip := false
		for _, e := range exclude {
			if k == e {
				skip = true
				break
			}
		}
		if !skip {
			out[k] = v
		}
	}
	return out
}

func hasTitle(entry []byte) bool {
	var probe map[string]json.RawMessage
	if err := sonic.Unmarshal(entry, &probe); err != nil {
		return false
	}
	_, ok := probe["title"]
	return ok
}
