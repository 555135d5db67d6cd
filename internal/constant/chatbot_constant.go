package constant

import (
	"encoding/json"
	"fmt"
	"strings"

	"cadastro-prestador-be/pkg/onboarding"
	"cadastro-prestador-be/pkg/onboarding/stage"
)

const (
	ChatSourceGenerator = "generator"
	ChatSourceFallback  = "fallback"

	EmptyChatMessageReply = "Por favor, envie uma mensagem."

	// Assistant persona. The stage rules mirror the fallback dialogue so both
	// paths ask for the same data.
	ChatbotSystemPromptV1 = `Você é um assistente de IA para cadastro de prestadores de serviço.
Sua função é coletar os dados do prestador de forma natural e conversacional, em português brasileiro, com tom amigável e profissional.

O cadastro tem 5 etapas:
1. Dados pessoais e endereço: RG, estado, cidade, CEP (bairro, rua, número e complemento são opcionais)
2. Área de atuação: estado e cidade onde quer trabalhar e categorias de serviço (eletricista, encanador, pedreiro, pintor, carpinteiro, mecânico, jardineiro, limpeza, consultoria)
3. Referências: pelo menos 2 contatos com nome e telefone
4. Dados bancários: tipo e chave PIX, banco, agência e conta
5. Documentos: foto de perfil, foto do documento e certidão de antecedentes criminais, enviados pelo botão de upload

REGRAS:
- Peça apenas os dados da próxima etapa pendente.
- Quando o usuário enviar dados, confirme o que foi recebido e diga o que ainda falta.
- Nunca peça CPF, e-mail ou senha: eles já foram informados no registro.
- Dê sempre um exemplo de como escrever os dados.
- Respostas curtas, no máximo 6 linhas.`

	FieldValidationPromptV1 = `Valide o campo "%s" de um cadastro de prestador de serviço no Brasil.
Valor informado: "%s"

Responda SOMENTE com um JSON no formato {"valid": true|false, "message": "explicação curta em português"}.`
)

// BuildChatPrompt renders the full generator prompt: persona, current
// progress and the transcript.
func BuildChatPrompt(profile *onboarding.Profile, snap stage.Snapshot, history []onboarding.Message) string {
	var b strings.Builder
	b.WriteString(ChatbotSystemPromptV1)

	b.WriteString("\n\nPROGRESSO ATUAL:\n")
	for n := 1; n <= stage.Count; n++ {
		mark := "pendente"
		if snap.Complete(n) {
			mark = "completa"
		}
		fmt.Fprintf(&b, "- Etapa %d (%s): %s", n, stage.Names[n], mark)
		if missing := stage.MissingFields(profile, n); len(missing) > 0 && !snap.Complete(n) {
			fmt.Fprintf(&b, " (faltam: %s)", strings.Join(missing, ", "))
		}
		b.WriteString("\n")
	}

	if profile != nil {
		if data, err := json.Marshal(promptProfile(profile)); err == nil {
			fmt.Fprintf(&b, "\nDADOS JÁ SALVOS:\n%s\n", data)
		}
	}

	b.WriteString("\nHistórico da conversa:\n")
	for _, m := range history {
		role := "Usuário"
		if m.Role == onboarding.RoleAssistant {
			role = "Assistente"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}
	b.WriteString("\nResponda de forma natural e continue coletando os dados.")
	return b.String()
}

// promptProfile drops identity and credential data before it reaches the
// generator.
func promptProfile(p *onboarding.Profile) onboarding.Profile {
	cp := *p
	cp.Cpf = ""
	cp.Email = ""
	cp.Cnpj = ""
	cp.TitularDoc = ""
	return cp
}

func BuildFieldValidationPrompt(field, value string) string {
	return fmt.Sprintf(FieldValidationPromptV1, field, value)
}
