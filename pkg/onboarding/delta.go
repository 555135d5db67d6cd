package onboarding

import (
	"sort"
	"strings"
)

// Delta is a partial profile keyed by field name. Values are string,
// []string (categorias) or []Reference (referencias).
type Delta map[string]any

func (d Delta) Has(field string) bool {
	_, ok := d[field]
	return ok
}

// String returns the value of a scalar field, or "" when absent.
func (d Delta) String(field string) string {
	s, _ := d[field].(string)
	return s
}

// Set assigns field only when it is not yet present. It reports whether the
// value was stored.
func (d Delta) Set(field string, value any) bool {
	if d.Has(field) {
		return false
	}
	d[field] = value
	return true
}

func (d Delta) Without(fields ...string) Delta {
	out := d.Clone()
	for _, f := range fields {
		delete(out, f)
	}
	return out
}

func (d Delta) Clone() Delta {
	out := make(Delta, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Keys returns the field names in lexical order.
func (d Delta) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Compact drops values that carry no information, so applying the delta can
// never clear a stored field.
func (d Delta) Compact() Delta {
	out := make(Delta, len(d))
	for k, v := range d {
		if IsEmptyValue(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func IsEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []string:
		return len(val) == 0
	case []Reference:
		return len(val) == 0
	case bool:
		return false
	default:
		return false
	}
}

// ApplyTo copies the delta onto p. Unknown keys are ignored.
func (d Delta) ApplyTo(p *Profile) {
	if p == nil {
		return
	}
	for k, v := range d {
		switch val := v.(type) {
		case []string:
			if k == FieldCategorias {
				p.Categorias = append([]string(nil), val...)
			}
		case []Reference:
			if k == FieldReferencias {
				p.Referencias = append([]Reference(nil), val...)
			}
		case string:
			if ptr := p.stringField(k); ptr != nil {
				*ptr = val
			}
		}
	}
}

func (p *Profile) stringField(name string) *string {
	switch name {
	case FieldNome:
		return &p.Nome
	case FieldEmail:
		return &p.Email
	case FieldCpf:
		return &p.Cpf
	case FieldCnpj:
		return &p.Cnpj
	case FieldTelefone:
		return &p.Telefone
	case FieldRg:
		return &p.Rg
	case FieldEstado:
		return &p.Estado
	case FieldCidade:
		return &p.Cidade
	case FieldCep:
		return &p.Cep
	case FieldBairro:
		return &p.Bairro
	case FieldLogradouro:
		return &p.Logradouro
	case FieldNumero:
		return &p.Numero
	case FieldComplemento:
		return &p.Complemento
	case FieldEstadoInteresse:
		return &p.EstadoInteresse
	case FieldCidadeInteresse:
		return &p.CidadeInteresse
	case FieldPixTipo:
		return &p.PixTipo
	case FieldPixChave:
		return &p.PixChave
	case FieldBancoNome:
		return &p.BancoNome
	case FieldAgencia:
		return &p.Agencia
	case FieldConta:
		return &p.Conta
	case FieldTitularNome:
		return &p.TitularNome
	case FieldTitularDoc:
		return &p.TitularDoc
	case FieldRazaoSocial:
		return &p.RazaoSocial
	case FieldTipoConta:
		return &p.TipoConta
	case FieldFotoPerfil:
		return &p.FotoPerfil
	case FieldFotoDocumento:
		return &p.FotoDocumento
	case FieldCertidaoAntecedentes:
		return &p.CertidaoAntecedentes
	}
	return nil
}

// IsProfileField reports whether name is a known scalar or list field.
func IsProfileField(name string) bool {
	if name == FieldCategorias || name == FieldReferencias {
		return true
	}
	var p Profile
	return p.stringField(name) != nil
}
