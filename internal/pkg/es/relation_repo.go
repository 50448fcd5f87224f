package es

import (
	"context"
	"errors"
	log "log/slog"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
)

type RelationRepo interface {
	IndexRelation(ctx context.Context, doc *UserRelationES, version int64) error
	DeleteRelation(ctx context.Context, id uint64) error
}

type RelationRepoImpl struct {
	client *elasticsearch.TypedClient
	index  string
}

func NewRelationRepo(client *elasticsearch.TypedClient, index string) RelationRepo {
	return &RelationRepoImpl{client: client, index: index}
}

// IndexRelation 外部版本号保证旧的计数不会覆盖新的计数
func (s *RelationRepoImpl) IndexRelation(ctx context.Context, doc *UserRelationES, version int64) error {
	docID := strconv.FormatUint(doc.ID, 10)

	_, err := s.client.Index(s.index).
		Id(docID).
		Document(doc).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				log.WarnContext(ctx, "Version conflict detected, skipping old data",
					"id", doc.ID,
					"version", version)
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *RelationRepoImpl) DeleteRelation(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)
	_, err := s.client.Delete(s.index, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				log.WarnContext(ctx, "Relation document already deleted or not found in ES", "id", id)
				return nil
			}
		}
		return err
	}
	return nil
}
