package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"estatehub/infras/otel"
	"estatehub/infras/postgres"
	"estatehub/internal/domains/report/model"
	gDto "estatehub/shared/dto"
	gRepo "estatehub/shared/repository"
)

type Report interface {
	Insert(ctx context.Context, model model.Report) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Report, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Report, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateAffected(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Report]
}

func New(db *postgres.Connection, otel otel.Otel) Report {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Report](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
