package dialogue

import (
	"fmt"
	"strings"

	"cadastro-prestador-be/pkg/onboarding"
	"cadastro-prestador-be/pkg/onboarding/stage"
)

const welcomeText = "Olá! 👋 Sou o assistente de cadastro de prestadores de serviço. " +
	"Vou te guiar em 5 etapas rápidas para completar seu perfil."

const completionText = "🎉 Parabéns! Seu cadastro está completo. " +
	"Nossa equipe vai analisar seus dados e documentos e você receberá uma resposta em breve."

const documentHelpText = "📄 Sobre os documentos:\n" +
	"• Foto de perfil: uma selfie recente, com o rosto visível e boa iluminação.\n" +
	"• Foto do documento: RG ou CNH, frente e verso legíveis.\n" +
	"• Certidão de antecedentes criminais: emitida gratuitamente no site da Polícia Federal " +
	"(gov.br/pf) ou da Secretaria de Segurança Pública do seu estado. Basta informar seus dados " +
	"pessoais e baixar o PDF.\n\n" +
	"Quando tiver os arquivos, envie pelo botão de upload (JPEG, PNG ou PDF, até 5MB cada)."

type stagePrompt struct {
	fields  []string
	example string
}

var prompts = map[int]stagePrompt{
	1: {
		fields: []string{
			"RG",
			"Estado (sigla, ex.: SP)",
			"Cidade",
			"CEP",
			"Bairro, rua e número (opcionais)",
		},
		example: "RG: 123456789, Estado: SP, Cidade: São Paulo, CEP: 01310-100",
	},
	2: {
		fields: []string{
			"Estado e cidade onde quer trabalhar",
			"Categorias de serviço (eletricista, encanador, pedreiro, pintor, carpinteiro, mecânico, jardineiro, limpeza, consultoria)",
		},
		example: "Quero trabalhar em SP, São Paulo. Sou eletricista e pintor",
	},
	3: {
		fields: []string{
			"Pelo menos 2 referências com nome e telefone",
		},
		example: "João Silva (11) 98765-4321, Maria Santos (21) 91234-5678",
	},
	4: {
		fields: []string{
			"Tipo e chave PIX (CPF, CNPJ, E-mail, Telefone ou Aleatória)",
			"Banco",
			"Agência",
			"Conta",
			"Titular, documento do titular e tipo de conta PF/PJ (opcionais)",
		},
		example: "PIX: CPF 12345678909, Banco: Itaú, Agência: 1234, Conta: 56789-0, Titular: João Silva, Doc: 123.456.789-09, Tipo de conta: PF",
	},
	5: {
		fields: []string{
			"Foto de perfil",
			"Foto do documento (RG ou CNH)",
			"Certidão de antecedentes criminais",
		},
		example: "Envie os arquivos pelo botão de upload e depois escreva \"documentos enviados\"",
	},
}

func stageTitle(n int) string {
	return fmt.Sprintf("Etapa %d de %d: %s", n, stage.Count, stage.Names[n])
}

// stagePromptText names the required fields, a worked example and, when
// part of the stage is already filled, exactly what is still missing.
func stagePromptText(n int, p *onboarding.Profile) string {
	pr := prompts[n]
	var b strings.Builder
	fmt.Fprintf(&b, "📋 *%s*\n\nPreciso das seguintes informações:\n", stageTitle(n))
	for _, f := range pr.fields {
		fmt.Fprintf(&b, "• %s\n", f)
	}
	missing := stage.MissingFields(p, n)
	if len(missing) > 0 && len(missing) < len(stage.MissingFields(nil, n)) {
		fmt.Fprintf(&b, "\nAinda faltam: %s\n", strings.Join(missing, ", "))
	}
	fmt.Fprintf(&b, "\nExemplo: \"%s\"", pr.example)
	return b.String()
}

func stageSummaryText(n int, p *onboarding.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Etapa %d (%s) completa!\n\n", n, stage.Names[n])
	for _, line := range summaryLines(n, p) {
		fmt.Fprintf(&b, "• %s\n", line)
	}
	if n == stage.Count {
		b.WriteString("\nEscreva *concluir* para finalizar seu cadastro.")
	} else {
		b.WriteString("\nSe estiver tudo certo, digite *confirmar* para seguir para a próxima etapa.")
	}
	return b.String()
}

func summaryLines(n int, p *onboarding.Profile) []string {
	if p == nil {
		return nil
	}
	switch n {
	case 1:
		lines := []string{
			"RG: " + p.Rg,
			"Estado: " + p.Estado,
			"Cidade: " + p.Cidade,
			"CEP: " + p.Cep,
		}
		if addr := strings.TrimSpace(strings.Join(nonBlank(p.Logradouro, p.Numero, p.Bairro), ", ")); addr != "" {
			lines = append(lines, "Endereço: "+addr)
		}
		return lines
	case 2:
		return []string{
			"Região: " + p.CidadeInteresse + " - " + p.EstadoInteresse,
			"Categorias: " + strings.Join(p.Categorias, ", "),
		}
	case 3:
		lines := make([]string, 0, len(p.Referencias))
		for _, r := range p.Referencias {
			if r.Nome != "" {
				lines = append(lines, r.Nome+": "+r.Telefone)
			} else {
				lines = append(lines, r.Telefone)
			}
		}
		return lines
	case 4:
		return []string{
			"PIX: " + p.PixTipo + " " + p.PixChave,
			"Banco: " + p.BancoNome,
			"Agência: " + p.Agencia,
			"Conta: " + p.Conta,
		}
	case 5:
		return []string{
			"Foto de perfil enviada",
			"Foto do documento enviada",
			"Certidão de antecedentes enviada",
		}
	}
	return nil
}

func prerequisiteText(n int, pending []int, p *onboarding.Profile) string {
	names := make([]string, len(pending))
	for i, s := range pending {
		names[i] = fmt.Sprintf("Etapa %d (%s)", s, stage.Names[s])
	}
	return fmt.Sprintf("⚠️ Para a Etapa %d você precisa antes completar: %s.\n\n%s",
		n, strings.Join(names, ", "), stagePromptText(pending[0], p))
}

func statusText(snap stage.Snapshot, p *onboarding.Profile) string {
	var b strings.Builder
	b.WriteString("📊 Status do seu cadastro:\n")
	for n := 1; n <= stage.Count; n++ {
		mark := "❌"
		if snap.Complete(n) {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s Etapa %d - %s\n", mark, n, stage.Names[n])
	}
	b.WriteString("\n")
	if next := snap.FirstIncomplete(); next != 0 {
		b.WriteString(stagePromptText(next, p))
	} else {
		b.WriteString(completionText)
	}
	return b.String()
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !onboarding.IsBlank(v) {
			out = append(out, v)
		}
	}
	return out
}
