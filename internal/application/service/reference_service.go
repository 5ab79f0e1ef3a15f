package service

import (
	"context"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/repository"
	"github.com/fieldserv/dms-api/pkg/apperror"
)

// FindOrCreateReference resolves a (type, value) lookup row, creating it on
// first use. A concurrent create loses to the unique index and the loser
// re-reads, so the operation is idempotent under races.
func FindOrCreateReference(ctx context.Context, repo repository.ReferenceRepository, refType, value string) (*entity.Reference, error) {
	existing, err := repo.Get(ctx, refType, value)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	ref := &entity.Reference{Type: refType, Value: value}
	if err := repo.Create(ctx, ref); err != nil {
		if createErr := translateDuplicate(err); apperror.IsKind(createErr, apperror.KindConflict) {
			return repo.Get(ctx, refType, value)
		}
		return nil, err
	}
	return ref, nil
}
