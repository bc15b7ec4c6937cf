package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finsight/internal/contextutil"
)

// QdrantStore implements VectorStore and DiverseSearcher using Qdrant.
//
// Collections are created with cosine distance, so Search scores are
// similarities: larger = better. Threshold filtering on top of these scores
// must be a minimum-similarity floor, not a maximum-distance cutoff.
type QdrantStore struct {
	client *qdrant.Client
}

// NewQdrantStore creates a new Qdrant vector store client.
// urlStr should be in the format "http://host:port" (e.g. "http://localhost:6333");
// the gRPC port is derived from the HTTP port.
func NewQdrantStore(urlStr string) (*QdrantStore, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334 // Default gRPC port
	if parsedURL.Port() != "" {
		if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
			// gRPC port is typically HTTP port + 1
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{client: client}, nil
}

// Upsert inserts or updates points in the collection.
func (s *QdrantStore) Upsert(ctx context.Context, collection string, points []Point) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, point := range points {
		qdrantPoint := &qdrant.PointStruct{
			Id:      qdrant.NewID(point.ID),
			Vectors: qdrant.NewVectors(point.Vec...),
		}
		if len(point.Meta) > 0 {
			qdrantPoint.Payload = qdrant.NewValueMap(point.Meta)
		}
		qdrantPoints = append(qdrantPoints, qdrantPoint)
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         qdrantPoints,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", collection, "count", len(points), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.InfoContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search performs a plain similarity search. Scores are cosine similarities.
func (s *QdrantStore) Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	limit := uint64(k)
	scoredPoints, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", collection, "k", k, "error", err)
		return nil, classifyError(err, "failed to search points")
	}

	results := make([]SearchResult, 0, len(scoredPoints))
	for _, p := range scoredPoints {
		results = append(results, SearchResult{
			PointID: pointID(p),
			Score:   p.Score,
			Scored:  true,
			Meta:    payloadToMap(p.Payload),
		})
	}

	logger.InfoContext(ctx, "search completed", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

// SearchDiverse fetches fetchK nearest neighbors with their vectors and
// selects k of them by maximal marginal relevance. No scores are returned:
// MMR ranking is not comparable to raw similarities.
func (s *QdrantStore) SearchDiverse(ctx context.Context, collection string, query []float32, k, fetchK int) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}
	if fetchK < k {
		fetchK = k
	}

	limit := uint64(fetchK)
	scoredPoints, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to fetch diversity candidates", "collection", collection, "fetch_k", fetchK, "error", err)
		return nil, classifyError(err, "failed to fetch diversity candidates")
	}

	candidates := make([][]float32, len(scoredPoints))
	for i, p := range scoredPoints {
		if vo := p.GetVectors(); vo != nil {
			if v := vo.GetVector(); v != nil {
				candidates[i] = v.GetData()
			}
		}
	}

	selected := maximalMarginalRelevance(query, candidates, mmrLambda, k)

	results := make([]SearchResult, 0, len(selected))
	for _, idx := range selected {
		p := scoredPoints[idx]
		results = append(results, SearchResult{
			PointID: pointID(p),
			Scored:  false,
			Meta:    payloadToMap(p.Payload),
		})
	}

	logger.InfoContext(ctx, "diversity search completed",
		"collection", collection, "k", k, "fetch_k", fetchK, "results", len(results))
	return results, nil
}

// Drop removes the whole collection.
func (s *QdrantStore) Drop(ctx context.Context, collection string) error {
	if err := s.client.DeleteCollection(ctx, collection); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}

// CollectionExists checks if a collection exists.
func (s *QdrantStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	return exists, nil
}

// EnsureCollection creates the collection with cosine distance if it does not
// exist, and validates the vector size if it does.
func (s *QdrantStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.CollectionExists(ctx, collection)
	if err != nil {
		return err
	}

	if !exists {
		logger.InfoContext(ctx, "creating collection", "collection", collection, "vector_size", vectorSize)
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	actualSize := collectionVectorSize(info)
	if actualSize == 0 {
		return fmt.Errorf("could not determine collection vector size")
	}
	if actualSize != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, actualSize)
	}

	logger.InfoContext(ctx, "collection validated", "collection", collection, "vector_size", vectorSize)
	return nil
}

// CollectionInfo contains information about a Qdrant collection.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
	Status      string
}

// GetCollectionInfo returns collection status including point count.
// Returns ErrIndexUnavailable when the collection does not exist.
func (s *QdrantStore) GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error) {
	exists, err := s.CollectionExists(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("collection %s: %w", collection, ErrIndexUnavailable)
	}

	info, err := s.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return nil, classifyError(err, "failed to get collection info")
	}

	var pointsCount int
	if info.PointsCount != nil {
		pointsCount = int(*info.PointsCount)
	}

	statusStr := "unknown"
	if info.Status != 0 {
		statusStr = info.Status.String()
	}

	return &CollectionInfo{
		VectorSize:  collectionVectorSize(info),
		PointsCount: pointsCount,
		Status:      statusStr,
	}, nil
}

func collectionVectorSize(info *qdrant.CollectionInfo) int {
	config := info.GetConfig()
	if config == nil || config.Params == nil {
		return 0
	}
	vectorsConfig := config.Params.GetVectorsConfig()
	if vectorsConfig == nil {
		return 0
	}
	params := vectorsConfig.GetParams()
	if params == nil {
		return 0
	}
	return int(params.Size)
}

// classifyError maps a missing collection onto ErrIndexUnavailable so the
// host can render "system offline" instead of crashing.
func classifyError(err error, msg string) error {
	if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
		return fmt.Errorf("%s: %w", msg, ErrIndexUnavailable)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func pointID(p *qdrant.ScoredPoint) string {
	if p.Id != nil {
		return p.Id.GetUuid()
	}
	return ""
}

// payloadToMap converts Qdrant payload to map[string]any.
func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a Qdrant Value to a Go any value.
func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return payloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}
