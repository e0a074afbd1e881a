// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// docprep is the one-shot preprocessing CLI: it converts directories of
// documents into jsonl, fetches remote dataset archives and converts
// SQuAD datasets.
//
// Usage:
//
//	docprep [flags] convert <dir>      convert .pdf/.txt/.docx files
//	docprep [flags] tika <dir>         convert via the unified converter with paragraph reconstruction
//	docprep [flags] fetch <url>        fetch and extract an archive into -dest
//	docprep [flags] squad-jsonl <in> <out>  convert SQuAD json to jsonl
//	docprep [flags] eval <file>        parse a SQuAD file into documents and labels
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/docprep/internal/convert"
	"github.com/docprep/internal/embeddings"
	"github.com/docprep/internal/fetcher"
	"github.com/docprep/internal/logger"
	"github.com/docprep/internal/model"
	"github.com/docprep/internal/processor"
	"github.com/docprep/internal/squad"
	"github.com/docprep/internal/store"
)

var (
	outPath        = flag.String("out", "", "Output jsonl file (default: stdout)")
	qdrantAddr     = flag.String("qdrant", "", "Qdrant gRPC address; index documents instead of writing jsonl")
	collection     = flag.String("collection", "docprep_documents", "Qdrant collection name")
	embedProvider  = flag.String("embedder", "mock", "Embedding provider for -qdrant (ollama or mock)")
	embedModel     = flag.String("embed-model", "", "Embedding model name (ollama)")
	embedURL       = flag.String("embed-url", "", "Embedding service base URL (ollama)")
	dest           = flag.String("dest", "./data", "Destination directory for fetched archives")
	split          = flag.Bool("split", true, "Split converted text into paragraphs")
	mergeShort     = flag.Bool("merge-short", true, "Merge paragraphs shorter than 10 characters (tika mode)")
	mergeLowercase = flag.Bool("merge-lowercase", true, "Merge lowercase continuation paragraphs (tika mode)")
	maxDocs        = flag.Int("max-docs", 0, "Maximum documents to load from a dataset (0 = all)")
	logFile        = flag.String("log-file", "", "Also write logs to this file")
	debug          = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	log, err := logger.Init(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()
	log.SetDebug(*debug)

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "convert":
		requireArgs(args, 2)
		docs, err := convert.Files(args[1], convert.Options{SplitParagraphs: *split})
		exitOn(err)
		exitOn(writeDocuments(docs))
	case "tika":
		requireArgs(args, 2)
		opts := processor.Options{
			SplitParagraphs: *split,
			MergeShort:      *mergeShort,
			MergeLowercase:  *mergeLowercase,
		}
		docs, err := convert.TikaFiles(args[1], opts)
		exitOn(err)
		exitOn(writeDocuments(docs))
	case "fetch":
		requireArgs(args, 2)
		fetched, err := fetcher.FetchArchive(context.Background(), args[1], *dest)
		exitOn(err)
		if !fetched {
			logger.Printf("nothing fetched")
		}
	case "squad-jsonl":
		requireArgs(args, 3)
		exitOn(squad.JSONToJSONL(args[1], args[2]))
	case "eval":
		requireArgs(args, 2)
		docs, labels, err := squad.EvalDataFromJSON(args[1], *maxDocs)
		exitOn(err)
		logger.Printf("loaded %d documents and %d labels from %s", len(docs), len(labels), args[1])
		exitOn(writeDocumentsAndLabels(docs, labels))
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: docprep [flags] <convert|tika|fetch|squad-jsonl|eval> ...\n\n")
	flag.PrintDefaults()
}

func requireArgs(args []string, n int) {
	if len(args) < n {
		usage()
		os.Exit(2)
	}
}

func exitOn(err error) {
	if err != nil {
		logger.Fatalf("%v", err)
	}
}

// writeDocuments emits documents to Qdrant (-qdrant), a jsonl file
// (-out), or stdout.
func writeDocuments(docs []model.Document) error {
	return writeDocumentsAndLabels(docs, nil)
}

func writeDocumentsAndLabels(docs []model.Document, labels []model.Label) error {
	ctx := context.Background()

	if *qdrantAddr != "" {
		sink, cleanup, err := qdrantSink()
		if err != nil {
			return err
		}
		defer cleanup()
		if err := sink.IndexDocuments(ctx, docs); err != nil {
			return err
		}
		return sink.IndexLabels(ctx, labels)
	}

	if *outPath != "" {
		sink, err := store.NewJSONLStore(*outPath)
		if err != nil {
			return err
		}
		defer sink.Close()
		if err := sink.IndexDocuments(ctx, docs); err != nil {
			return err
		}
		return sink.IndexLabels(ctx, labels)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	for _, label := range labels {
		if err := enc.Encode(label); err != nil {
			return err
		}
	}
	return nil
}

func qdrantSink() (store.DocumentStore, func(), error) {
	embedderCfg := map[string]string{"base_url": *embedURL, "model": *embedModel}
	embedder, err := embeddings.NewEmbedder(*embedProvider, embedderCfg)
	if err != nil {
		return nil, nil, err
	}

	conn, err := grpc.NewClient(*qdrantAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	sink, err := store.NewQdrantStore(conn, embedder, *collection)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return sink, func() { conn.Close() }, nil
}
