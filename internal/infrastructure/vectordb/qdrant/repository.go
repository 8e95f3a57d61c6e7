// Package qdrant provides a VectorDB implementation using Qdrant.
package qdrant

import (
	"context"
	"fmt"
	"time"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/ports"
	"github.com/castletown/compendium/internal/infrastructure/config"
)

// Repository implements the VectorDB interface using Qdrant.
type Repository struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	collection string
	conn       *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig) (*Repository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Repository{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
		conn:       conn,
	}, nil
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// EnsureCollection creates the collection if it doesn't exist.
func (r *Repository) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// DeleteCollection removes the collection and all its points. Used by
// integration tests to reset state.
func (r *Repository) DeleteCollection(ctx context.Context) error {
	_, err := r.client.Delete(ctx, &pb.DeleteCollection{
		CollectionName: r.collection,
	})
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// Save indexes a submission with its embedding.
func (r *Repository) Save(ctx context.Context, sub entities.Submission) error {
	point := &pb.PointStruct{
		Id: &pb.PointId{
			PointIdOptions: &pb.PointId_Uuid{
				Uuid: sub.ID,
			},
		},
		Vectors: &pb.Vectors{
			VectorsOptions: &pb.Vectors_Vector{
				Vector: &pb.Vector{
					Data: sub.Embedding,
				},
			},
		},
		Payload: map[string]*pb.Value{
			"kind":           {Kind: &pb.Value_StringValue{StringValue: string(sub.Kind)}},
			"author_user_id": {Kind: &pb.Value_StringValue{StringValue: sub.AuthorUserID}},
			"title":          {Kind: &pb.Value_StringValue{StringValue: sub.Title}},
			"body":           {Kind: &pb.Value_StringValue{StringValue: sub.Body}},
			"status":         {Kind: &pb.Value_StringValue{StringValue: string(sub.Status)}},
			"created_at":     {Kind: &pb.Value_StringValue{StringValue: sub.CreatedAt.Format(time.RFC3339)}},
		},
	}

	_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Points:         []*pb.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("upserting point: %w", err)
	}

	return nil
}

// Search returns the indexed submissions most similar to the embedding.
func (r *Repository) Search(ctx context.Context, embedding []float32, limit int) ([]ports.ScoredSubmission, error) {
	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         embedding,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	results := make([]ports.ScoredSubmission, 0, len(resp.Result))
	for _, point := range resp.Result {
		results = append(results, ports.ScoredSubmission{
			Submission: pointToSubmission(point.Id, point.Payload),
			Score:      point.Score,
		})
	}
	return results, nil
}

// Delete removes a submission from the index.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Uuid{Uuid: id}},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting point: %w", err)
	}

	return nil
}

// pointToSubmission converts a Qdrant payload back into a Submission.
func pointToSubmission(pointID *pb.PointId, payload map[string]*pb.Value) entities.Submission {
	sub := entities.Submission{
		ID:           pointID.GetUuid(),
		Kind:         entities.SubmissionKind(getStringValue(payload, "kind")),
		AuthorUserID: getStringValue(payload, "author_user_id"),
		Title:        getStringValue(payload, "title"),
		Body:         getStringValue(payload, "body"),
		Status:       entities.SubmissionStatus(getStringValue(payload, "status")),
	}

	if raw := getStringValue(payload, "created_at"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			sub.CreatedAt = t
		}
	}
	return sub
}

// getStringValue extracts a string payload field.
func getStringValue(payload map[string]*pb.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
