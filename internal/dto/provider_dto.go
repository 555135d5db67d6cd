package dto

import (
	"time"

	"cadastro-prestador-be/pkg/onboarding"
	"cadastro-prestador-be/pkg/onboarding/stage"
)

type ProviderListItem struct {
	onboarding.Profile
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProviderDetailResponse struct {
	onboarding.Profile
	Status    string         `json:"status"`
	Stages    stage.Snapshot `json:"stages"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type ListProvidersRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=pendente aprovado rejeitado"`
	Completo *bool  `query:"completo"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

type UpdateProviderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pendente aprovado rejeitado"`
}

type StageDetail struct {
	Etapa    int      `json:"etapa"`
	Nome     string   `json:"nome"`
	Completa bool     `json:"completa"`
	Faltando []string `json:"faltando"`
}

type ProviderStagesResponse struct {
	Stages         stage.Snapshot `json:"stages"`
	Detalhes       []StageDetail  `json:"detalhes"`
	EtapaAtual     int            `json:"etapaAtual"`
	TodasCompletas bool           `json:"todasCompletas"`
}
