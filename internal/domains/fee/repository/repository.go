package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"estatehub/infras/otel"
	"estatehub/infras/postgres"
	"estatehub/internal/domains/fee/model"
	gDto "estatehub/shared/dto"
	gRepo "estatehub/shared/repository"
)

type Fee interface {
	Insert(ctx context.Context, model model.Fee) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Fee, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Fee, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateAffected(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Fee]
}

func New(db *postgres.Connection, otel otel.Otel) Fee {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Fee](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
