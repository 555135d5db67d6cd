package integration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"testing"
	"time"

	"cadastro-prestador-be/internal/entity"
	"cadastro-prestador-be/internal/model"
	"cadastro-prestador-be/internal/repository/specification"
	"cadastro-prestador-be/internal/repository/unitofwork"
	"cadastro-prestador-be/pkg/database"
	"cadastro-prestador-be/pkg/onboarding"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")
	require.NoError(t, gormDB.AutoMigrate(&model.Provider{}))
	return gormDB
}

// randomDigits keeps unique columns distinct across runs.
func randomDigits(n int) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	out := make([]byte, n)
	for i := range out {
		out[i] = byte('0' + r.Intn(10))
	}
	return string(out)
}

func newProvider() *entity.Provider {
	return &entity.Provider{
		Profile: onboarding.Profile{
			ID:    uuid.New(),
			Nome:  "Integração Teste",
			Email: "integration-" + uuid.NewString() + "@example.com",
			Cpf:   randomDigits(11),
		},
		SenhaHash: "hash",
		Status:    entity.ProviderStatusPending,
	}
}

func TestProviderRepository(t *testing.T) {
	gormDB := openDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	repo := uowFactory.NewUnitOfWork(ctx).ProviderRepository()

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	require.NoError(t, sqlDB.Ping())

	p := newProvider()
	require.NoError(t, repo.Create(ctx, p))
	t.Cleanup(func() {
		gormDB.Where("id = ?", p.ID).Delete(&model.Provider{})
	})

	t.Run("find by email", func(t *testing.T) {
		found, err := repo.FindOne(ctx, specification.ByEmail{Email: p.Email})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, p.ID, found.ID)
		assert.Equal(t, entity.ProviderStatusPending, found.Status)
	})

	t.Run("missing provider is nil", func(t *testing.T) {
		found, err := repo.FindOne(ctx, specification.ByID{ID: uuid.New()})
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("update columns round trips lists", func(t *testing.T) {
		delta := onboarding.Delta{
			onboarding.FieldCidade:     "Santos",
			onboarding.FieldCategorias: []string{"limpeza", "jardinagem"},
			onboarding.FieldReferencias: []onboarding.Reference{
				{Nome: "João", Telefone: "(11) 91234-5678"},
			},
		}
		require.NoError(t, repo.UpdateColumns(ctx, p.ID, delta, time.Now()))

		found, err := repo.FindOne(ctx, specification.ByID{ID: p.ID})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Santos", found.Cidade)
		assert.Equal(t, []string{"limpeza", "jardinagem"}, found.Categorias)
		require.Len(t, found.Referencias, 1)
		assert.Equal(t, "João", found.Referencias[0].Nome)
	})

	t.Run("duplicate cnpj is a unique violation", func(t *testing.T) {
		other := newProvider()
		require.NoError(t, repo.Create(ctx, other))
		t.Cleanup(func() {
			gormDB.Where("id = ?", other.ID).Delete(&model.Provider{})
		})

		cnpj := fmt.Sprintf("%s/0001-%s", randomDigits(8), randomDigits(2))
		require.NoError(t, repo.UpdateColumns(ctx, p.ID, onboarding.Delta{onboarding.FieldCnpj: cnpj}, time.Now()))

		err := repo.UpdateColumns(ctx, other.ID, onboarding.Delta{onboarding.FieldCnpj: cnpj}, time.Now())
		var uv *onboarding.UniqueViolationError
		require.True(t, errors.As(err, &uv), "got %v", err)
		assert.Equal(t, onboarding.FieldCnpj, uv.Field)
	})

	t.Run("status and completion", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, p.ID, entity.ProviderStatusApproved))
		require.NoError(t, repo.MarkRegistrationComplete(ctx, p.ID, true))

		count, err := repo.Count(ctx,
			specification.ByStatus{Status: string(entity.ProviderStatusApproved)},
			specification.RegistrationComplete{Complete: true},
			specification.ByID{ID: p.ID},
		)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("transaction rollback discards writes", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))

		tmp := newProvider()
		require.NoError(t, uow.ProviderRepository().Create(ctx, tmp))
		require.NoError(t, uow.Rollback())

		found, err := repo.FindOne(ctx, specification.ByID{ID: tmp.ID})
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
