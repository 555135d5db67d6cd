// Package dialogue is the rule-based assistant used when the generative
// model is unavailable. Respond is a pure function: the same message,
// transcript and profile always produce the same reply.
package dialogue

import (
	"regexp"
	"strings"

	"cadastro-prestador-be/pkg/onboarding"
	"cadastro-prestador-be/pkg/onboarding/extract"
	"cadastro-prestador-be/pkg/onboarding/stage"
)

var (
	startPhrases    = []string{"comecar", "iniciar"}
	resumePhrases   = []string{"continuar", "retomar", "quero me cadastrar", "meu cadastro"}
	confirmTokens   = map[string]struct{}{"confirmar": {}, "confirmo": {}, "sim": {}, "ok": {}, "okay": {}, "proxima": {}, "proximo": {}, "avancar": {}, "seguir": {}}
	terminalPhrases = []string{"documentos enviados", "enviado", "concluir", "finalizar"}
	questionPhrases = []string{"o que e", "como obter", "certidao", "antecedentes", "como faco"}
)

// stage trigger vocabulary, matched against folded text
var triggers = map[int]*regexp.Regexp{
	1: regexp.MustCompile(`\b(rg|endereco|cep|cidade|bairro|rua|avenida|moro)\b`),
	2: regexp.MustCompile(`\b(trabalhar|atuar|atuacao|regiao|categorias?|servicos?|eletricista|encanador|pedreiro|pintor|carpinteiro|marceneiro|mecanico|jardineiro|limpeza|consultoria)\b`),
	3: regexp.MustCompile(`\b(referencias?|contatos?|telefones?)\b`),
	4: regexp.MustCompile(`\b(pix|banco|bancarios?|agencia|conta|titular)\b`),
	5: regexp.MustCompile(`\b(fotos?|upload|anexar|anexos?)\b|enviar (o |os )?documentos?`),
}

type turn struct {
	raw     string
	folded  string
	earlier []string
	history []onboarding.Message
	snap    stage.Snapshot
	profile *onboarding.Profile
}

// policy is evaluated in order; the first rule that answers wins.
var policy = []func(t turn) (string, bool){
	startOrResume,
	firstMessage,
	confirmation,
	stageTrigger,
	terminalConfirmation,
	documentQuestion,
}

// Respond picks the assistant reply for message. history is the transcript
// including message as its last entry.
func Respond(message string, history []onboarding.Message, snap stage.Snapshot, profile *onboarding.Profile) string {
	t := turn{
		raw:     message,
		folded:  onboarding.Fold(strings.TrimSpace(message)),
		history: history,
		snap:    snap,
		profile: profile,
	}
	t.earlier = earlierUserMessages(history)

	for _, rule := range policy {
		if reply, ok := rule(t); ok {
			return reply
		}
	}
	return statusText(snap, profile)
}

func startOrResume(t turn) (string, bool) {
	if containsAny(t.folded, startPhrases) {
		return stagePromptText(1, t.profile), true
	}
	if containsAny(t.folded, resumePhrases) {
		if next := t.snap.FirstIncomplete(); next != 0 {
			return stagePromptText(next, t.profile), true
		}
		return completionText, true
	}
	return "", false
}

func firstMessage(t turn) (string, bool) {
	if len(t.history) != 1 {
		return "", false
	}
	return welcomeText + "\n\n" + stagePromptText(1, t.profile), true
}

// confirmation moves to the stage after the first finished one whose
// successor is still open, skipping successors that are already done.
func confirmation(t turn) (string, bool) {
	token := strings.Trim(t.folded, " !.,;:?")
	if _, ok := confirmTokens[token]; !ok {
		return "", false
	}
	for n := 1; n < stage.Count; n++ {
		if t.snap.Complete(n) && !t.snap.Complete(n+1) {
			return stagePromptText(n+1, t.profile), true
		}
	}
	if next := t.snap.FirstIncomplete(); next != 0 {
		return stagePromptText(next, t.profile), true
	}
	return completionText, true
}

func stageTrigger(t turn) (string, bool) {
	for n := stage.Count; n >= 1; n-- {
		if !matchesStage(n, t.raw, t.folded) {
			continue
		}
		if n < stage.Count && mentionedEarlier(n+1, t.earlier) {
			continue
		}
		if pending := t.snap.IncompleteBefore(n); len(pending) > 0 {
			return prerequisiteText(n, pending, t.profile), true
		}
		if t.snap.Complete(n) {
			return stageSummaryText(n, t.profile), true
		}
		return stagePromptText(n, t.profile), true
	}
	return "", false
}

// terminalConfirmation accepts the end of registration once stages 1 to 4
// are done, without checking the uploaded documents.
func terminalConfirmation(t turn) (string, bool) {
	if !containsAny(t.folded, terminalPhrases) {
		return "", false
	}
	for n := 1; n <= 4; n++ {
		if !t.snap.Complete(n) {
			return "", false
		}
	}
	return completionText, true
}

func documentQuestion(t turn) (string, bool) {
	if containsAny(t.folded, questionPhrases) {
		return documentHelpText, true
	}
	return "", false
}

func matchesStage(n int, raw, folded string) bool {
	if triggers[n].MatchString(folded) {
		return true
	}
	return n == 3 && extract.HasPhone(raw)
}

func mentionedEarlier(n int, earlier []string) bool {
	for _, msg := range earlier {
		if matchesStage(n, msg, onboarding.Fold(msg)) {
			return true
		}
	}
	return false
}

// earlierUserMessages drops the trailing entry, which is the message being
// answered.
func earlierUserMessages(history []onboarding.Message) []string {
	if len(history) == 0 {
		return nil
	}
	var out []string
	for _, m := range history[:len(history)-1] {
		if m.Role == onboarding.RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
