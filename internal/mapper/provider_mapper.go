package mapper

import (
	"encoding/json"
	"fmt"

	"cadastro-prestador-be/internal/entity"
	"cadastro-prestador-be/internal/model"
	"cadastro-prestador-be/pkg/onboarding"

	"gorm.io/datatypes"
)

// columnByField maps delta keys to providers columns. Fields absent here
// cannot be written through a delta.
var columnByField = map[string]string{
	onboarding.FieldNome:                 "nome",
	onboarding.FieldCnpj:                 "cnpj",
	onboarding.FieldTelefone:             "telefone",
	onboarding.FieldRg:                   "rg",
	onboarding.FieldEstado:               "estado",
	onboarding.FieldCidade:               "cidade",
	onboarding.FieldCep:                  "cep",
	onboarding.FieldBairro:               "bairro",
	onboarding.FieldLogradouro:           "logradouro",
	onboarding.FieldNumero:               "numero",
	onboarding.FieldComplemento:          "complemento",
	onboarding.FieldEstadoInteresse:      "estado_interesse",
	onboarding.FieldCidadeInteresse:      "cidade_interesse",
	onboarding.FieldCategorias:           "categorias",
	onboarding.FieldReferencias:          "referencias",
	onboarding.FieldPixTipo:              "pix_tipo",
	onboarding.FieldPixChave:             "pix_chave",
	onboarding.FieldBancoNome:            "banco_nome",
	onboarding.FieldAgencia:              "agencia",
	onboarding.FieldConta:                "conta",
	onboarding.FieldTitularNome:          "titular_nome",
	onboarding.FieldTitularDoc:           "titular_doc",
	onboarding.FieldRazaoSocial:          "razao_social",
	onboarding.FieldTipoConta:            "tipo_conta",
	onboarding.FieldFotoPerfil:           "foto_perfil",
	onboarding.FieldFotoDocumento:        "foto_documento",
	onboarding.FieldCertidaoAntecedentes: "certidao_antecedentes",
}

// FieldByColumn resolves a column name back to its profile field.
func FieldByColumn(column string) (string, bool) {
	for f, c := range columnByField {
		if c == column {
			return f, true
		}
	}
	return "", false
}

type ProviderMapper struct{}

func NewProviderMapper() *ProviderMapper {
	return &ProviderMapper{}
}

func (m *ProviderMapper) ToEntity(p *model.Provider) *entity.Provider {
	if p == nil {
		return nil
	}

	var categorias []string
	if len(p.Categorias) > 0 {
		_ = json.Unmarshal(p.Categorias, &categorias)
	}
	var referencias []onboarding.Reference
	if len(p.Referencias) > 0 {
		_ = json.Unmarshal(p.Referencias, &referencias)
	}

	cnpj := ""
	if p.Cnpj != nil {
		cnpj = *p.Cnpj
	}

	return &entity.Provider{
		Profile: onboarding.Profile{
			ID:                   p.Id,
			Nome:                 p.Nome,
			Email:                p.Email,
			Cpf:                  p.Cpf,
			Cnpj:                 cnpj,
			Telefone:             p.Telefone,
			Rg:                   p.Rg,
			Estado:               p.Estado,
			Cidade:               p.Cidade,
			Cep:                  p.Cep,
			Bairro:               p.Bairro,
			Logradouro:           p.Logradouro,
			Numero:               p.Numero,
			Complemento:          p.Complemento,
			EstadoInteresse:      p.EstadoInteresse,
			CidadeInteresse:      p.CidadeInteresse,
			Categorias:           categorias,
			Referencias:          referencias,
			PixTipo:              p.PixTipo,
			PixChave:             p.PixChave,
			BancoNome:            p.BancoNome,
			Agencia:              p.Agencia,
			Conta:                p.Conta,
			TitularNome:          p.TitularNome,
			TitularDoc:           p.TitularDoc,
			RazaoSocial:          p.RazaoSocial,
			TipoConta:            p.TipoConta,
			FotoPerfil:           p.FotoPerfil,
			FotoDocumento:        p.FotoDocumento,
			CertidaoAntecedentes: p.CertidaoAntecedentes,
			CadastroCompleto:     p.CadastroCompleto,
		},
		SenhaHash: p.Senha,
		Status:    entity.ProviderStatus(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *ProviderMapper) ToModel(e *entity.Provider) *model.Provider {
	if e == nil {
		return nil
	}

	var cnpj *string
	if !onboarding.IsBlank(e.Cnpj) {
		v := e.Cnpj
		cnpj = &v
	}

	categorias, _ := json.Marshal(nonNilStrings(e.Categorias))
	referencias, _ := json.Marshal(nonNilReferences(e.Referencias))

	status := string(e.Status)
	if status == "" {
		status = string(entity.ProviderStatusPending)
	}

	return &model.Provider{
		Id:                   e.ID,
		Nome:                 e.Nome,
		Email:                e.Email,
		Cpf:                  e.Cpf,
		Cnpj:                 cnpj,
		Telefone:             e.Telefone,
		Senha:                e.SenhaHash,
		Status:               status,
		Rg:                   e.Rg,
		Estado:               e.Estado,
		Cidade:               e.Cidade,
		Cep:                  e.Cep,
		Bairro:               e.Bairro,
		Logradouro:           e.Logradouro,
		Numero:               e.Numero,
		Complemento:          e.Complemento,
		EstadoInteresse:      e.EstadoInteresse,
		CidadeInteresse:      e.CidadeInteresse,
		Categorias:           datatypes.JSON(categorias),
		Referencias:          datatypes.JSON(referencias),
		PixTipo:              e.PixTipo,
		PixChave:             e.PixChave,
		BancoNome:            e.BancoNome,
		Agencia:              e.Agencia,
		Conta:                e.Conta,
		TitularNome:          e.TitularNome,
		TitularDoc:           e.TitularDoc,
		RazaoSocial:          e.RazaoSocial,
		TipoConta:            e.TipoConta,
		FotoPerfil:           e.FotoPerfil,
		FotoDocumento:        e.FotoDocumento,
		CertidaoAntecedentes: e.CertidaoAntecedentes,
		CadastroCompleto:     e.CadastroCompleto,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

func (m *ProviderMapper) ToEntities(models []*model.Provider) []*entity.Provider {
	entities := make([]*entity.Provider, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}

// DeltaToColumns turns a profile delta into an UPDATE column map. List
// fields are stored as JSON text.
func (m *ProviderMapper) DeltaToColumns(delta onboarding.Delta) (map[string]interface{}, error) {
	columns := make(map[string]interface{}, len(delta))
	for field, value := range delta {
		column, ok := columnByField[field]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			// cnpj is unique but optional; blanks must stay NULL
			if field == onboarding.FieldCnpj && onboarding.IsBlank(v) {
				columns[column] = nil
				continue
			}
			columns[column] = v
		case []string, []onboarding.Reference:
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", field, err)
			}
			columns[column] = datatypes.JSON(raw)
		default:
			return nil, fmt.Errorf("unsupported value for %s: %T", field, value)
		}
	}
	return columns, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilReferences(r []onboarding.Reference) []onboarding.Reference {
	if r == nil {
		return []onboarding.Reference{}
	}
	return r
}
