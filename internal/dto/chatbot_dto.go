package dto

import (
	"cadastro-prestador-be/pkg/onboarding"
	"cadastro-prestador-be/pkg/onboarding/stage"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response       string           `json:"response"`
	ExtractedData  onboarding.Delta `json:"extractedData"`
	ConversationId uuid.UUID        `json:"conversationId,omitempty"`
	Stages         *stage.Snapshot  `json:"stages,omitempty"`
	Source         string           `json:"source,omitempty"`
}

type ConversationHistoryResponse struct {
	ConversationId uuid.UUID            `json:"conversationId,omitempty"`
	Messages       []onboarding.Message `json:"messages"`
}

type ValidateFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type ValidateFieldResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// UpdateProfileRequest is the structured counterpart of a chat turn. Absent
// and empty fields are left untouched.
type UpdateProfileRequest struct {
	Nome     string `json:"nome"`
	Cnpj     string `json:"cnpj"`
	Telefone string `json:"telefone"`

	FotoPerfil           string `json:"fotoPerfil"`
	FotoDocumento        string `json:"fotoDocumento"`
	CertidaoAntecedentes string `json:"certidaoAntecedentes"`

	Rg          string `json:"rg"`
	Estado      string `json:"estado" validate:"omitempty,len=2"`
	Cidade      string `json:"cidade"`
	Cep         string `json:"cep"`
	Bairro      string `json:"bairro"`
	Logradouro  string `json:"logradouro"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento"`

	EstadoInteresse string   `json:"estadoInteresse" validate:"omitempty,len=2"`
	CidadeInteresse string   `json:"cidadeInteresse"`
	Categorias      []string `json:"categorias"`

	Referencias []onboarding.Reference `json:"referencias" validate:"omitempty,dive"`

	RazaoSocial string `json:"razaoSocial"`
	TipoConta   string `json:"tipoConta" validate:"omitempty,oneof=PF PJ"`
	PixTipo     string `json:"pixTipo"`
	PixChave    string `json:"pixChave"`
	BancoNome   string `json:"bancoNome"`
	Agencia     string `json:"agencia"`
	Conta       string `json:"conta"`
	TitularNome string `json:"titularNome"`
	TitularDoc  string `json:"titularDoc"`
}

// ToDelta keeps only the filled fields.
func (r *UpdateProfileRequest) ToDelta() onboarding.Delta {
	d := onboarding.Delta{
		onboarding.FieldNome:                 r.Nome,
		onboarding.FieldCnpj:                 r.Cnpj,
		onboarding.FieldTelefone:             r.Telefone,
		onboarding.FieldFotoPerfil:           r.FotoPerfil,
		onboarding.FieldFotoDocumento:        r.FotoDocumento,
		onboarding.FieldCertidaoAntecedentes: r.CertidaoAntecedentes,
		onboarding.FieldRg:                   r.Rg,
		onboarding.FieldEstado:               r.Estado,
		onboarding.FieldCidade:               r.Cidade,
		onboarding.FieldCep:                  r.Cep,
		onboarding.FieldBairro:               r.Bairro,
		onboarding.FieldLogradouro:           r.Logradouro,
		onboarding.FieldNumero:               r.Numero,
		onboarding.FieldComplemento:          r.Complemento,
		onboarding.FieldEstadoInteresse:      r.EstadoInteresse,
		onboarding.FieldCidadeInteresse:      r.CidadeInteresse,
		onboarding.FieldCategorias:           r.Categorias,
		onboarding.FieldReferencias:          r.Referencias,
		onboarding.FieldRazaoSocial:          r.RazaoSocial,
		onboarding.FieldTipoConta:            r.TipoConta,
		onboarding.FieldPixTipo:              r.PixTipo,
		onboarding.FieldPixChave:             r.PixChave,
		onboarding.FieldBancoNome:            r.BancoNome,
		onboarding.FieldAgencia:              r.Agencia,
		onboarding.FieldConta:                r.Conta,
		onboarding.FieldTitularNome:          r.TitularNome,
		onboarding.FieldTitularDoc:           r.TitularDoc,
	}
	return d.Compact()
}

type ProfileUpdateResponse struct {
	Profile *onboarding.Profile `json:"profile"`
	Applied []string            `json:"applied"`
	Dropped []string            `json:"dropped"`
	Stages  stage.Snapshot      `json:"stages"`
}
