package service

import "net/http"

// Error is a failure the client caused or must be told about verbatim.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) HTTPStatus() int {
	return e.Status
}

var (
	ErrEmailAlreadyRegistered = &Error{Status: http.StatusBadRequest, Message: "Email já registrado"}
	ErrCpfAlreadyRegistered   = &Error{Status: http.StatusBadRequest, Message: "CPF já registrado"}
	ErrInvalidCredentials     = &Error{Status: http.StatusUnauthorized, Message: "Email ou senha inválidos"}
	ErrInvalidStatus          = &Error{Status: http.StatusBadRequest, Message: "Status inválido. Use pendente, aprovado ou rejeitado"}
	ErrInvalidStage           = &Error{Status: http.StatusBadRequest, Message: "Etapa inválida"}
	ErrProcessingFailed       = &Error{Status: http.StatusInternalServerError, Message: "Erro ao processar mensagem"}

	ErrFileMissing     = &Error{Status: http.StatusBadRequest, Message: "Arquivo não enviado"}
	ErrNoFiles         = &Error{Status: http.StatusBadRequest, Message: "Nenhum arquivo enviado"}
	ErrTooManyFiles    = &Error{Status: http.StatusBadRequest, Message: "Máximo de 10 arquivos por envio"}
	ErrFileTooLarge    = &Error{Status: http.StatusBadRequest, Message: "Arquivo excede o limite de 5MB"}
	ErrFileTypeInvalid = &Error{Status: http.StatusBadRequest, Message: "Formato não permitido. Use JPEG, PNG ou PDF"}
	ErrInvalidCampo    = &Error{Status: http.StatusBadRequest, Message: "Campo inválido. Use fotoPerfil, fotoDocumento ou certidaoAntecedentes"}
)
