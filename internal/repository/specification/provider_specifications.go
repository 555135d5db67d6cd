package specification

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByCpf struct {
	Cpf string
}

func (s ByCpf) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("cpf = ?", s.Cpf)
}

type ByCnpj struct {
	Cnpj string
}

func (s ByCnpj) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("cnpj = ?", s.Cnpj)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type RegistrationComplete struct {
	Complete bool
}

func (s RegistrationComplete) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("cadastro_completo = ?", s.Complete)
}

// ForUpdate locks the matched rows until the transaction ends.
type ForUpdate struct{}

func (ForUpdate) Apply(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
