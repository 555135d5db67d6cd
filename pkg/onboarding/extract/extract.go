// Package extract pulls structured profile fields out of free-text chat
// messages. Extraction is best effort: an ordered list of independent rules
// runs over the message and a field keeps the value of the first rule that
// produced it.
package extract

import (
	"regexp"
	"strings"

	"cadastro-prestador-be/pkg/onboarding"
)

// rule inspects the message and proposes values. found holds what earlier
// rules already produced.
type rule struct {
	name  string
	match func(msg string, found onboarding.Delta) onboarding.Delta
}

var rules = []rule{
	capture("cnpj", onboarding.FieldCnpj, cnpjPattern, 0, digits),
	capture("cpf", onboarding.FieldCpf, cpfPattern, 0, digits),
	capture("email", onboarding.FieldEmail, emailPattern, 0, strings.TrimSpace),
	capture("cep_labeled", onboarding.FieldCep, cepLabeled, 1, digits),
	{name: "cep", match: matchCepBare},
	{name: "phones", match: matchPhones},
	capture("rg", onboarding.FieldRg, rgPattern, 1, digits),
	{name: "interest", match: matchInterest},
	{name: "estado_labeled", match: matchEstadoLabeled},
	{name: "estado", match: matchEstadoBare},
	capture("cidade", onboarding.FieldCidade, cidadePattern, 1, strings.TrimSpace),
	capture("bairro", onboarding.FieldBairro, bairroPattern, 1, strings.TrimSpace),
	capture("complemento", onboarding.FieldComplemento, complementoPattern, 1, strings.TrimSpace),
	capture("logradouro", onboarding.FieldLogradouro, logradouroPattern, 1, strings.TrimSpace),
	capture("numero", onboarding.FieldNumero, numeroPattern, 1, strings.TrimSpace),
	{name: "categorias", match: matchCategories},
	{name: "pix", match: matchPix},
	capture("banco", onboarding.FieldBancoNome, bancoPattern, 1, strings.TrimSpace),
	capture("agencia", onboarding.FieldAgencia, agenciaPattern, 1, strings.TrimSpace),
	capture("conta", onboarding.FieldConta, contaPattern, 1, trimDashes),
	capture("titular", onboarding.FieldTitularNome, titularNomePattern, 1, strings.TrimSpace),
	capture("doc", onboarding.FieldTitularDoc, titularDocPattern, 1, trimTrailingPunct),
	capture("razao_social", onboarding.FieldRazaoSocial, razaoPattern, 1, strings.TrimSpace),
	capture("tipo_conta", onboarding.FieldTipoConta, tipoContaPattern, 1, upper),
	{name: "nome", match: matchNome},
}

// Extract returns every field it could recognise in message. The result is
// empty, never nil, when nothing matched.
func Extract(message string) onboarding.Delta {
	found := onboarding.Delta{}
	if strings.TrimSpace(message) == "" {
		return found
	}
	for _, r := range rules {
		for field, value := range r.match(message, found) {
			if onboarding.IsEmptyValue(value) {
				continue
			}
			found.Set(field, value)
		}
	}
	return found
}

func capture(name, field string, re *regexp.Regexp, group int, normalize func(string) string) rule {
	return rule{
		name: name,
		match: func(msg string, found onboarding.Delta) onboarding.Delta {
			if found.Has(field) {
				return nil
			}
			m := re.FindStringSubmatch(msg)
			if m == nil || len(m) <= group {
				return nil
			}
			v := normalize(m[group])
			if v == "" {
				return nil
			}
			return onboarding.Delta{field: v}
		},
	}
}

// numeric tokens that belong to other fields and must not be read as a CEP
var cepExclusions = []*regexp.Regexp{
	cpfPattern, cnpjPattern, phonePattern, rgPattern, agenciaPattern,
	contaPattern, titularDocPattern, pixPattern,
}

// matchCepBare accepts an unlabelled CEP only when no other numeric field
// covers those digits.
func matchCepBare(msg string, found onboarding.Delta) onboarding.Delta {
	if found.Has(onboarding.FieldCep) {
		return nil
	}
	var excluded [][]int
	for _, re := range cepExclusions {
		excluded = append(excluded, re.FindAllStringIndex(msg, -1)...)
	}
	for _, loc := range cepBare.FindAllStringIndex(msg, -1) {
		if overlaps(loc, excluded) {
			continue
		}
		return onboarding.Delta{onboarding.FieldCep: digits(msg[loc[0]:loc[1]])}
	}
	return nil
}

func matchPhones(msg string, found onboarding.Delta) onboarding.Delta {
	locs := phonePattern.FindAllStringIndex(msg, -1)
	switch {
	case len(locs) == 0:
		return nil
	case len(locs) == 1:
		return onboarding.Delta{onboarding.FieldTelefone: strings.TrimSpace(msg[locs[0][0]:locs[0][1]])}
	}

	refs := make([]onboarding.Reference, 0, len(locs))
	prev := 0
	for _, loc := range locs {
		ref := onboarding.Reference{Telefone: strings.TrimSpace(msg[loc[0]:loc[1]])}
		if m := referenceName.FindStringSubmatch(msg[prev:loc[0]]); m != nil {
			ref.Nome = strings.TrimSpace(m[1])
		}
		refs = append(refs, ref)
		prev = loc[1]
	}
	return onboarding.Delta{onboarding.FieldReferencias: refs}
}

func matchInterest(msg string, found onboarding.Delta) onboarding.Delta {
	for _, m := range interestPattern.FindAllStringSubmatch(msg, -1) {
		uf := upper(m[1])
		if !IsUF(uf) {
			continue
		}
		out := onboarding.Delta{onboarding.FieldEstadoInteresse: uf}
		if city := strings.TrimSpace(m[2]); city != "" {
			out[onboarding.FieldCidadeInteresse] = city
		}
		return out
	}
	return nil
}

func matchEstadoLabeled(msg string, found onboarding.Delta) onboarding.Delta {
	for _, m := range estadoLabeled.FindAllStringSubmatch(msg, -1) {
		if IsUF(m[1]) {
			return onboarding.Delta{onboarding.FieldEstado: upper(m[1])}
		}
	}
	return nil
}

// matchEstadoBare accepts an upper-case state code standing alone, ignoring
// the one that belongs to a "trabalhar em" phrase.
func matchEstadoBare(msg string, found onboarding.Delta) onboarding.Delta {
	if found.Has(onboarding.FieldEstado) {
		return nil
	}
	excluded := interestPattern.FindAllStringIndex(msg, -1)
	for _, loc := range ufToken.FindAllStringIndex(msg, -1) {
		if within(loc, excluded) {
			continue
		}
		code := msg[loc[0]:loc[1]]
		if IsUF(code) {
			return onboarding.Delta{onboarding.FieldEstado: code}
		}
	}
	return nil
}

func matchCategories(msg string, found onboarding.Delta) onboarding.Delta {
	folded := onboarding.Fold(msg)
	var out []string
	for _, c := range Categories {
		for _, term := range c.terms {
			if strings.Contains(folded, term) {
				out = append(out, c.name)
				break
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return onboarding.Delta{onboarding.FieldCategorias: out}
}

func matchPix(msg string, found onboarding.Delta) onboarding.Delta {
	m := pixPattern.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	out := onboarding.Delta{}
	tipo := strings.TrimSpace(m[1])
	if tipo != "" {
		out[onboarding.FieldPixTipo] = tipo
	}
	chave := trimTrailingPunct(m[2])
	if chave != "" && !strings.EqualFold(chave, tipo) {
		out[onboarding.FieldPixChave] = chave
	}
	return out
}

// matchNome only trusts a "Nome:" label when the message carries no email or
// tax id, since those messages tend to be credential blocks.
func matchNome(msg string, found onboarding.Delta) onboarding.Delta {
	if found.Has(onboarding.FieldEmail) || found.Has(onboarding.FieldCpf) || found.Has(onboarding.FieldCnpj) {
		return nil
	}
	m := nomePattern.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	nome := strings.TrimSpace(m[1])
	if nome == "" {
		return nil
	}
	return onboarding.Delta{onboarding.FieldNome: nome}
}

func within(loc []int, spans [][]int) bool {
	for _, s := range spans {
		if loc[0] >= s[0] && loc[1] <= s[1] {
			return true
		}
	}
	return false
}

func overlaps(loc []int, spans [][]int) bool {
	for _, s := range spans {
		if loc[0] < s[1] && s[0] < loc[1] {
			return true
		}
	}
	return false
}

func digits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func trimTrailingPunct(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ",.;:")
}

func trimDashes(s string) string {
	return strings.Trim(strings.TrimSpace(s), "-")
}

// HasPhone reports whether msg contains a phone-like token.
func HasPhone(msg string) bool {
	return phonePattern.MatchString(msg)
}
