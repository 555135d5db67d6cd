package dto

import (
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Nome  string `json:"nome" validate:"required,min=3"`
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=6"`
	Cpf   string `json:"cpf" validate:"required,cpf"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

type ProviderSummaryDTO struct {
	Id               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Nome             string    `json:"nome"`
	Status           string    `json:"status"`
	CadastroCompleto bool      `json:"cadastroCompleto"`
	Cpf              string    `json:"cpf,omitempty"`
}

type AuthResponse struct {
	Token    string             `json:"token"`
	Provider ProviderSummaryDTO `json:"provider"`
	Message  string             `json:"message,omitempty"`
}
