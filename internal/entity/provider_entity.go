package entity

import (
	"time"

	"cadastro-prestador-be/pkg/onboarding"
)

type ProviderStatus string

const (
	ProviderStatusPending  ProviderStatus = "pendente"
	ProviderStatusApproved ProviderStatus = "aprovado"
	ProviderStatusRejected ProviderStatus = "rejeitado"
)

func (s ProviderStatus) Valid() bool {
	switch s {
	case ProviderStatusPending, ProviderStatusApproved, ProviderStatusRejected:
		return true
	}
	return false
}

type Provider struct {
	onboarding.Profile
	SenhaHash string
	Status    ProviderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
