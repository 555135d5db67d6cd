package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Provider struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome     string    `gorm:"type:varchar(255);not null"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex:idx_providers_email;not null"`
	Cpf      string    `gorm:"type:varchar(14);uniqueIndex:idx_providers_cpf;not null"`
	Cnpj     *string   `gorm:"type:varchar(18);uniqueIndex:idx_providers_cnpj"`
	Telefone string    `gorm:"type:varchar(20)"`
	Senha    string    `gorm:"type:varchar(255);not null"`
	Status   string    `gorm:"type:varchar(20);not null;default:'pendente';index"`

	Rg          string `gorm:"type:varchar(20)"`
	Estado      string `gorm:"type:varchar(2)"`
	Cidade      string `gorm:"type:varchar(100)"`
	Cep         string `gorm:"type:varchar(9)"`
	Bairro      string `gorm:"type:varchar(100)"`
	Logradouro  string `gorm:"type:varchar(255)"`
	Numero      string `gorm:"type:varchar(20)"`
	Complemento string `gorm:"type:varchar(100)"`

	EstadoInteresse string         `gorm:"type:varchar(2)"`
	CidadeInteresse string         `gorm:"type:varchar(100)"`
	Categorias      datatypes.JSON `gorm:"type:text"`
	Referencias     datatypes.JSON `gorm:"type:text"`

	PixTipo     string `gorm:"type:varchar(20)"`
	PixChave    string `gorm:"type:varchar(255)"`
	BancoNome   string `gorm:"type:varchar(100)"`
	Agencia     string `gorm:"type:varchar(10)"`
	Conta       string `gorm:"type:varchar(20)"`
	TitularNome string `gorm:"type:varchar(255)"`
	TitularDoc  string `gorm:"type:varchar(18)"`
	RazaoSocial string `gorm:"type:varchar(255)"`
	TipoConta   string `gorm:"type:varchar(2)"`

	FotoPerfil           string `gorm:"type:text"`
	FotoDocumento        string `gorm:"type:text"`
	CertidaoAntecedentes string `gorm:"type:text"`

	CadastroCompleto bool      `gorm:"default:false"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Provider) TableName() string {
	return "providers"
}
