package implementation

import (
	"context"
	"errors"
	"strings"
	"time"

	"cadastro-prestador-be/internal/entity"
	"cadastro-prestador-be/internal/mapper"
	"cadastro-prestador-be/internal/model"
	"cadastro-prestador-be/internal/repository/contract"
	"cadastro-prestador-be/internal/repository/specification"
	"cadastro-prestador-be/pkg/onboarding"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// uniqueConstraintField maps the providers unique indexes to profile fields.
var uniqueConstraintField = map[string]string{
	"idx_providers_email": onboarding.FieldEmail,
	"idx_providers_cpf":   onboarding.FieldCpf,
	"idx_providers_cnpj":  onboarding.FieldCnpj,
}

type ProviderRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProviderMapper
}

func NewProviderRepository(db *gorm.DB) contract.ProviderRepository {
	return &ProviderRepositoryImpl{
		db:     db,
		mapper: mapper.NewProviderMapper(),
	}
}

func (r *ProviderRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProviderRepositoryImpl) Create(ctx context.Context, provider *entity.Provider) error {
	modelProvider := r.mapper.ToModel(provider)
	if provider.ID == uuid.Nil {
		modelProvider.Id = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(modelProvider).Error; err != nil {
		return translateError(err)
	}
	*provider = *r.mapper.ToEntity(modelProvider)
	return nil
}

func (r *ProviderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Provider, error) {
	var modelProvider model.Provider
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelProvider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelProvider), nil
}

func (r *ProviderRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Provider, error) {
	var modelProviders []*model.Provider
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelProviders).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelProviders), nil
}

func (r *ProviderRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Provider{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProviderRepositoryImpl) UpdateColumns(ctx context.Context, id uuid.UUID, delta onboarding.Delta, updatedAt time.Time) error {
	columns, err := r.mapper.DeltaToColumns(delta)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return nil
	}
	columns["updated_at"] = updatedAt

	result := r.db.WithContext(ctx).Model(&model.Provider{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return onboarding.ErrProviderNotFound
	}
	return nil
}

func (r *ProviderRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ProviderStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Provider{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return onboarding.ErrProviderNotFound
	}
	return nil
}

func (r *ProviderRepositoryImpl) MarkRegistrationComplete(ctx context.Context, id uuid.UUID, complete bool) error {
	return r.db.WithContext(ctx).Model(&model.Provider{}).
		Where("id = ?", id).
		Update("cadastro_completo", complete).Error
}

// translateError turns a Postgres unique violation into the domain error
// naming the colliding field.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}
	if field, ok := uniqueConstraintField[pgErr.ConstraintName]; ok {
		return &onboarding.UniqueViolationError{Field: field}
	}
	// constraint created outside AutoMigrate, fall back to the column in the message
	for _, field := range []string{onboarding.FieldCnpj, onboarding.FieldCpf, onboarding.FieldEmail} {
		if strings.Contains(pgErr.Detail, "("+field+")") {
			return &onboarding.UniqueViolationError{Field: field}
		}
	}
	return err
}
