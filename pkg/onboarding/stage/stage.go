// Package stage derives onboarding progress from profile data. Nothing here
// is persisted: the current stage is always the lowest incomplete one,
// recomputed from whatever fields are present.
package stage

import "cadastro-prestador-be/pkg/onboarding"

// Count is the number of onboarding stages.
const Count = 5

// MinReferences is how many contacts stage 3 requires.
const MinReferences = 2

// Snapshot is the completion state of every stage.
type Snapshot struct {
	Etapa1 bool `json:"etapa1"`
	Etapa2 bool `json:"etapa2"`
	Etapa3 bool `json:"etapa3"`
	Etapa4 bool `json:"etapa4"`
	Etapa5 bool `json:"etapa5"`
}

type requirement struct {
	label   string
	present func(p *onboarding.Profile) bool
}

func filled(get func(p *onboarding.Profile) string) func(p *onboarding.Profile) bool {
	return func(p *onboarding.Profile) bool { return !onboarding.IsBlank(get(p)) }
}

var requirements = map[int][]requirement{
	1: {
		{label: "RG", present: filled(func(p *onboarding.Profile) string { return p.Rg })},
		{label: "Estado", present: filled(func(p *onboarding.Profile) string { return p.Estado })},
		{label: "Cidade", present: filled(func(p *onboarding.Profile) string { return p.Cidade })},
		{label: "CEP", present: filled(func(p *onboarding.Profile) string { return p.Cep })},
	},
	2: {
		{label: "Estado de interesse", present: filled(func(p *onboarding.Profile) string { return p.EstadoInteresse })},
		{label: "Cidade de interesse", present: filled(func(p *onboarding.Profile) string { return p.CidadeInteresse })},
		{label: "Categorias de serviço", present: func(p *onboarding.Profile) bool { return len(p.Categorias) > 0 }},
	},
	3: {
		{label: "Referências (mínimo 2)", present: func(p *onboarding.Profile) bool { return len(p.Referencias) >= MinReferences }},
	},
	4: {
		{label: "Tipo de chave PIX", present: filled(func(p *onboarding.Profile) string { return p.PixTipo })},
		{label: "Chave PIX", present: filled(func(p *onboarding.Profile) string { return p.PixChave })},
		{label: "Banco", present: filled(func(p *onboarding.Profile) string { return p.BancoNome })},
		{label: "Agência", present: filled(func(p *onboarding.Profile) string { return p.Agencia })},
		{label: "Conta", present: filled(func(p *onboarding.Profile) string { return p.Conta })},
	},
	5: {
		{label: "Foto de perfil", present: filled(func(p *onboarding.Profile) string { return p.FotoPerfil })},
		{label: "Foto do documento", present: filled(func(p *onboarding.Profile) string { return p.FotoDocumento })},
		{label: "Certidão de antecedentes criminais", present: filled(func(p *onboarding.Profile) string { return p.CertidaoAntecedentes })},
	},
}

// Names are the user-facing stage titles.
var Names = map[int]string{
	1: "Dados pessoais e endereço",
	2: "Área de atuação",
	3: "Referências",
	4: "Dados bancários",
	5: "Documentos",
}

// Evaluate is total: a nil or empty profile yields every stage incomplete.
func Evaluate(p *onboarding.Profile) Snapshot {
	return Snapshot{
		Etapa1: complete(p, 1),
		Etapa2: complete(p, 2),
		Etapa3: complete(p, 3),
		Etapa4: complete(p, 4),
		Etapa5: complete(p, 5),
	}
}

func complete(p *onboarding.Profile, n int) bool {
	return p != nil && len(MissingFields(p, n)) == 0
}

// MissingFields lists the labels of the fields stage n still needs, in
// presentation order. A nil profile misses everything.
func MissingFields(p *onboarding.Profile, n int) []string {
	var missing []string
	for _, req := range requirements[n] {
		if p == nil || !req.present(p) {
			missing = append(missing, req.label)
		}
	}
	return missing
}

// Complete reports whether stage n (1-based) is done. Out of range is false.
func (s Snapshot) Complete(n int) bool {
	switch n {
	case 1:
		return s.Etapa1
	case 2:
		return s.Etapa2
	case 3:
		return s.Etapa3
	case 4:
		return s.Etapa4
	case 5:
		return s.Etapa5
	}
	return false
}

// FirstIncomplete returns the lowest stage not yet done, or 0 when all are.
func (s Snapshot) FirstIncomplete() int {
	for n := 1; n <= Count; n++ {
		if !s.Complete(n) {
			return n
		}
	}
	return 0
}

func (s Snapshot) AllComplete() bool {
	return s.FirstIncomplete() == 0
}

// IncompleteBefore lists the stages lower than n that are not done.
func (s Snapshot) IncompleteBefore(n int) []int {
	var out []int
	for i := 1; i < n && i <= Count; i++ {
		if !s.Complete(i) {
			out = append(out, i)
		}
	}
	return out
}
