// Package onboarding holds the domain types shared by the provider
// registration assistant: the profile snapshot, the field delta produced by
// extraction and the conversation transcript.
package onboarding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Profile field names. They double as JSON keys of extracted deltas.
const (
	FieldNome     = "nome"
	FieldEmail    = "email"
	FieldSenha    = "senha"
	FieldCpf      = "cpf"
	FieldCnpj     = "cnpj"
	FieldTelefone = "telefone"

	FieldRg          = "rg"
	FieldEstado      = "estado"
	FieldCidade      = "cidade"
	FieldCep         = "cep"
	FieldBairro      = "bairro"
	FieldLogradouro  = "logradouro"
	FieldNumero      = "numero"
	FieldComplemento = "complemento"

	FieldEstadoInteresse = "estadoInteresse"
	FieldCidadeInteresse = "cidadeInteresse"
	FieldCategorias      = "categorias"

	FieldReferencias = "referencias"

	FieldPixTipo     = "pixTipo"
	FieldPixChave    = "pixChave"
	FieldBancoNome   = "bancoNome"
	FieldAgencia     = "agencia"
	FieldConta       = "conta"
	FieldTitularNome = "titularNome"
	FieldTitularDoc  = "titularDoc"
	FieldRazaoSocial = "razaoSocial"
	FieldTipoConta   = "tipoConta"

	FieldFotoPerfil           = "fotoPerfil"
	FieldFotoDocumento        = "fotoDocumento"
	FieldCertidaoAntecedentes = "certidaoAntecedentes"
)

// ImmutableFields never travel through a stage delta.
var ImmutableFields = []string{FieldCpf, FieldEmail, FieldSenha}

// DocumentFields are the profile slots an upload can fill.
var DocumentFields = []string{FieldFotoPerfil, FieldFotoDocumento, FieldCertidaoAntecedentes}

var ErrProviderNotFound = errors.New("prestador não encontrado")

// Reference is a personal or professional contact given by the provider.
type Reference struct {
	Nome                string `json:"nome"`
	Telefone            string `json:"telefone"`
	TelefoneAlternativo string `json:"telefoneAlternativo,omitempty"`
}

// Profile is the registration snapshot the assistant reasons about.
// An empty string means the field is absent.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	Nome     string    `json:"nome"`
	Email    string    `json:"email"`
	Cpf      string    `json:"cpf"`
	Cnpj     string    `json:"cnpj,omitempty"`
	Telefone string    `json:"telefone,omitempty"`

	Rg          string `json:"rg,omitempty"`
	Estado      string `json:"estado,omitempty"`
	Cidade      string `json:"cidade,omitempty"`
	Cep         string `json:"cep,omitempty"`
	Bairro      string `json:"bairro,omitempty"`
	Logradouro  string `json:"logradouro,omitempty"`
	Numero      string `json:"numero,omitempty"`
	Complemento string `json:"complemento,omitempty"`

	EstadoInteresse string   `json:"estadoInteresse,omitempty"`
	CidadeInteresse string   `json:"cidadeInteresse,omitempty"`
	Categorias      []string `json:"categorias"`

	Referencias []Reference `json:"referencias"`

	PixTipo     string `json:"pixTipo,omitempty"`
	PixChave    string `json:"pixChave,omitempty"`
	BancoNome   string `json:"bancoNome,omitempty"`
	Agencia     string `json:"agencia,omitempty"`
	Conta       string `json:"conta,omitempty"`
	TitularNome string `json:"titularNome,omitempty"`
	TitularDoc  string `json:"titularDoc,omitempty"`
	RazaoSocial string `json:"razaoSocial,omitempty"`
	TipoConta   string `json:"tipoConta,omitempty"`

	FotoPerfil           string `json:"fotoPerfil,omitempty"`
	FotoDocumento        string `json:"fotoDocumento,omitempty"`
	CertidaoAntecedentes string `json:"certidaoAntecedentes,omitempty"`

	CadastroCompleto bool `json:"cadastroCompleto"`
}

// UniqueViolationError reports that the store refused a write because the
// value of Field already belongs to another profile.
type UniqueViolationError struct {
	Field string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("valor já cadastrado para o campo %s", e.Field)
}

// IsBlank reports whether s has no visible content.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
