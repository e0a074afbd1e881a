// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"github.com/docprep/internal/embeddings"
	"github.com/docprep/internal/logger"
	"github.com/docprep/internal/model"
)

// indexBatchSize bounds how many documents are embedded and upserted at once.
const indexBatchSize = 64

// QdrantStore indexes documents into a Qdrant collection over gRPC.
// Labels go to a sibling collection keyed on the embedded question.
type QdrantStore struct {
	collections     qdrant.CollectionsClient
	points          qdrant.PointsClient
	embedder        embeddings.Embedder
	collection      string
	labelCollection string
	labelsEnsured   bool
}

// NewQdrantStore wraps a gRPC connection to Qdrant and ensures the
// target collection exists with the embedder's dimension.
func NewQdrantStore(conn grpc.ClientConnInterface, embedder embeddings.Embedder, collection string) (*QdrantStore, error) {
	if conn == nil {
		return nil, errors.New("qdrant connection is required")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if collection == "" {
		collection = "docprep_documents"
	}

	s := &QdrantStore{
		collections:     qdrant.NewCollectionsClient(conn),
		points:          qdrant.NewPointsClient(conn),
		embedder:        embedder,
		collection:      collection,
		labelCollection: collection + "_labels",
	}
	if err := s.ensureCollection(context.Background(), s.collection); err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}
	return s, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context, name string) error {
	list, err := s.collections.List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == name {
			return nil
		}
	}

	logger.Printf("creating qdrant collection %s (dimension %d)", name, s.embedder.Dimension())
	_, err = s.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(s.embedder.Dimension()),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// IndexDocuments embeds and upserts documents in batches.
func (s *QdrantStore) IndexDocuments(ctx context.Context, docs []model.Document) error {
	for start := 0; start < len(docs); start += indexBatchSize {
		end := start + indexBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := s.indexBatch(ctx, docs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *QdrantStore) indexBatch(ctx context.Context, docs []model.Document) error {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed batch: %w", err)
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, d := range docs {
		points[i] = &qdrant.PointStruct{
			Id: &qdrant.PointId{
				PointIdOptions: &qdrant.PointId_Uuid{Uuid: d.ID},
			},
			Vectors: &qdrant.Vectors{
				VectorsOptions: &qdrant.Vectors_Vector{
					Vector: &qdrant.Vector{Data: vectors[i]},
				},
			},
			Payload: payloadFor(d),
		}
	}

	wait := true
	_, err = s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	logger.Debugf("indexed %d documents into %s", len(docs), s.collection)
	return nil
}

// IndexLabels embeds label questions and upserts them into the label
// collection, created on first use.
func (s *QdrantStore) IndexLabels(ctx context.Context, labels []model.Label) error {
	if len(labels) == 0 {
		return nil
	}
	if !s.labelsEnsured {
		if err := s.ensureCollection(ctx, s.labelCollection); err != nil {
			return fmt.Errorf("failed to ensure label collection: %w", err)
		}
		s.labelsEnsured = true
	}

	for start := 0; start < len(labels); start += indexBatchSize {
		end := start + indexBatchSize
		if end > len(labels) {
			end = len(labels)
		}
		if err := s.indexLabelBatch(ctx, labels[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *QdrantStore) indexLabelBatch(ctx context.Context, labels []model.Label) error {
	questions := make([]string, len(labels))
	for i, l := range labels {
		questions[i] = l.Question
	}
	vectors, err := s.embedder.EmbedBatch(ctx, questions)
	if err != nil {
		return fmt.Errorf("failed to embed label batch: %w", err)
	}

	points := make([]*qdrant.PointStruct, len(labels))
	for i, l := range labels {
		points[i] = &qdrant.PointStruct{
			Id: &qdrant.PointId{
				PointIdOptions: &qdrant.PointId_Uuid{Uuid: uuid.New().String()},
			},
			Vectors: &qdrant.Vectors{
				VectorsOptions: &qdrant.Vectors_Vector{
					Vector: &qdrant.Vector{Data: vectors[i]},
				},
			},
			Payload: labelPayloadFor(l),
		}
	}

	wait := true
	_, err = s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.labelCollection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert label points: %w", err)
	}
	logger.Debugf("indexed %d labels into %s", len(labels), s.labelCollection)
	return nil
}

func labelPayloadFor(l model.Label) map[string]*qdrant.Value {
	return map[string]*qdrant.Value{
		"question":            {Kind: &qdrant.Value_StringValue{StringValue: l.Question}},
		"answer":              {Kind: &qdrant.Value_StringValue{StringValue: l.Answer}},
		"document_id":         {Kind: &qdrant.Value_StringValue{StringValue: l.DocumentID}},
		"offset_start_in_doc": {Kind: &qdrant.Value_StringValue{StringValue: strconv.Itoa(l.OffsetStartInDoc)}},
		"no_answer":           {Kind: &qdrant.Value_BoolValue{BoolValue: l.NoAnswer}},
		"origin":              {Kind: &qdrant.Value_StringValue{StringValue: l.Origin}},
	}
}

func payloadFor(d model.Document) map[string]*qdrant.Value {
	payload := map[string]*qdrant.Value{
		"text": {Kind: &qdrant.Value_StringValue{StringValue: d.Text}},
	}
	for k, v := range d.Meta {
		if v == nil {
			continue
		}
		payload[k] = &qdrant.Value{
			Kind: &qdrant.Value_StringValue{StringValue: fmt.Sprintf("%v", v)},
		}
	}
	return payload
}
