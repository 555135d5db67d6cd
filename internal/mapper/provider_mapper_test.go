package mapper

import (
	"testing"

	"cadastro-prestador-be/internal/entity"
	"cadastro-prestador-be/internal/model"
	"cadastro-prestador-be/pkg/onboarding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestToModelDefaults(t *testing.T) {
	m := NewProviderMapper()

	got := m.ToModel(&entity.Provider{
		Profile: onboarding.Profile{ID: uuid.New(), Nome: "Ana", Cnpj: "  "},
	})

	assert.Nil(t, got.Cnpj)
	assert.Equal(t, string(entity.ProviderStatusPending), got.Status)
	assert.JSONEq(t, `[]`, string(got.Categorias))
	assert.JSONEq(t, `[]`, string(got.Referencias))
}

func TestToEntityDecodesLists(t *testing.T) {
	m := NewProviderMapper()
	cnpj := "12.345.678/0001-90"

	got := m.ToEntity(&model.Provider{
		Id:          uuid.New(),
		Cnpj:        &cnpj,
		Senha:       "hash",
		Status:      "aprovado",
		Categorias:  datatypes.JSON(`["limpeza","pintura"]`),
		Referencias: datatypes.JSON(`[{"nome":"João","telefone":"11999999999"}]`),
	})

	require.NotNil(t, got)
	assert.Equal(t, cnpj, got.Cnpj)
	assert.Equal(t, "hash", got.SenhaHash)
	assert.Equal(t, entity.ProviderStatusApproved, got.Status)
	assert.Equal(t, []string{"limpeza", "pintura"}, got.Categorias)
	assert.Equal(t, []onboarding.Reference{{Nome: "João", Telefone: "11999999999"}}, got.Referencias)
	assert.Nil(t, m.ToEntity(nil))
}

func TestDeltaToColumns(t *testing.T) {
	m := NewProviderMapper()

	tests := []struct {
		name    string
		delta   onboarding.Delta
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "scalar fields",
			delta: onboarding.Delta{onboarding.FieldCidade: "Santos", onboarding.FieldPixTipo: "email"},
			want:  map[string]interface{}{"cidade": "Santos", "pix_tipo": "email"},
		},
		{
			name:  "lists become json",
			delta: onboarding.Delta{onboarding.FieldCategorias: []string{"limpeza"}},
			want:  map[string]interface{}{"categorias": datatypes.JSON(`["limpeza"]`)},
		},
		{
			name:  "blank cnpj is null",
			delta: onboarding.Delta{onboarding.FieldCnpj: ""},
			want:  map[string]interface{}{"cnpj": nil},
		},
		{
			name:  "identity fields are not writable",
			delta: onboarding.Delta{onboarding.FieldEmail: "x@y.com", onboarding.FieldCpf: "123"},
			want:  map[string]interface{}{},
		},
		{
			name:    "unsupported value",
			delta:   onboarding.Delta{onboarding.FieldNumero: 42},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.DeltaToColumns(tt.delta)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldByColumn(t *testing.T) {
	f, ok := FieldByColumn("cidade_interesse")
	assert.True(t, ok)
	assert.Equal(t, onboarding.FieldCidadeInteresse, f)

	_, ok = FieldByColumn("senha")
	assert.False(t, ok)
}
