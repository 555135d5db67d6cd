package extract

import "regexp"

var (
	cpfPattern   = regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`)
	cnpjPattern  = regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`)
	cepLabeled   = regexp.MustCompile(`(?i)\bCEP\s*:?\s*(\d{5}-?\d{3})\b`)
	cepBare      = regexp.MustCompile(`\b\d{5}-?\d{3}\b`)
	emailPattern = regexp.MustCompile(`[\w.+-]+@[\w-]+(?:\.[\w-]+)+`)
	phonePattern = regexp.MustCompile(`\(?\b\d{2}\)?\s?9?\d{4}-?\d{4}\b`)
	rgPattern    = regexp.MustCompile(`(?i)\bRG\s*:?\s*(\d[\d.\-]*)`)

	estadoLabeled = regexp.MustCompile(`(?i)\bEstado\s*:?\s*([A-Za-z]{2})\b`)
	ufToken       = regexp.MustCompile(`\b[A-Z]{2}\b`)

	cidadePattern      = regexp.MustCompile(`(?i)\bCidade\s*(?::|\s)\s*(?:é\s+)?([^,.;\n]+)`)
	bairroPattern      = regexp.MustCompile(`(?i)\bBairro\s*:?\s*([^,.;\n]+)`)
	complementoPattern = regexp.MustCompile(`(?i)\bComplemento\s*:?\s*([^,.;\n]+)`)
	logradouroPattern  = regexp.MustCompile(`(?i)\b((?:Rua|Avenida|Av\.?)\s+[^,.;\n]+?)\s*(?:[,.;\n]|\bN[úu]mero\b|\bn[°º]|$)`)
	numeroPattern      = regexp.MustCompile(`(?i)(?:\bN[úu]mero\s*:?\s*|\bn[°º]\s*)(\d+)`)

	interestPattern = regexp.MustCompile(`(?i)\btrabalhar\s+em\s+([A-Za-z]{2})\b\s*[,\-]?\s*([^,.;\n]*)`)

	pixPattern = regexp.MustCompile(`(?i)\bPIX\s*:\s*(?:(CPF|CNPJ|E-?mail|Telefone|Aleat[óo]ria)\b)?\s*:?\s*(\S+)?`)

	bancoPattern       = regexp.MustCompile(`(?i)\bBanco\s*:\s*(.+?)\s*(?:[,.;\n]|Ag[êe]ncia|$)`)
	agenciaPattern     = regexp.MustCompile(`(?i)\bAg[êe]ncia\s*:?\s*(\d+)`)
	contaPattern       = regexp.MustCompile(`(?i)\bConta\s*:\s*(\d[\d\-]*)`)
	titularNomePattern = regexp.MustCompile(`(?i)\bTitular\s*:\s*(.+?)\s*(?:[,.;\n]|\bDoc\b|$)`)
	titularDocPattern  = regexp.MustCompile(`(?i)\bDoc\s*:\s*(\d[\d./\-]*)`)
	razaoPattern       = regexp.MustCompile(`(?i)\bRaz[ãa]o(?:\s+Social)?\s*:?\s*(.+?)\s*(?:[,.;\n]|\bCNPJ\b|\bTipo\b|$)`)
	tipoContaPattern   = regexp.MustCompile(`(?i)\bTipo(?:\s+de\s+conta)?\s*:?\s*(P[FJ])\b`)

	nomePattern = regexp.MustCompile(`(?i)\bNome\s*:\s*([^,.;\n\d]+)`)

	// trailing personal name right before a phone token
	referenceName = regexp.MustCompile(`([A-ZÀ-Ý][a-zà-ÿ]+(?:\s+(?:d[aeo]s?\s+)?[A-ZÀ-Ý][a-zà-ÿ]+)*)[\s\-:–,]*$`)

	nonDigit = regexp.MustCompile(`\D`)
)

// UFs lists the 27 Brazilian federative unit codes.
var UFs = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {},
	"ES": {}, "GO": {}, "MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {},
	"PB": {}, "PR": {}, "PE": {}, "PI": {}, "RJ": {}, "RN": {}, "RS": {},
	"RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// IsUF reports whether code (any case) is a Brazilian state code.
func IsUF(code string) bool {
	_, ok := UFs[upper(code)]
	return ok
}

type category struct {
	name  string
	terms []string
}

// Categories in presentation order. Terms are matched against the folded
// message.
var Categories = []category{
	{name: "eletricista", terms: []string{"eletricista"}},
	{name: "encanador", terms: []string{"encanador"}},
	{name: "pedreiro", terms: []string{"pedreiro"}},
	{name: "pintor", terms: []string{"pintor"}},
	{name: "carpinteiro", terms: []string{"carpinteiro", "marceneiro"}},
	{name: "mecânico", terms: []string{"mecanico"}},
	{name: "jardineiro", terms: []string{"jardineiro"}},
	{name: "limpeza", terms: []string{"limpeza"}},
	{name: "consultoria", terms: []string{"consultoria"}},
}

// CategoryNames returns the accepted category values in order.
func CategoryNames() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = c.name
	}
	return out
}
