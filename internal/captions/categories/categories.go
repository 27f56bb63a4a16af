package categories

import "sort"

// table maps each category to its curated hashtag list, in curation
// order. Loaded once at process start and never mutated.
var table = map[string][]string{
	"fitness":        {"#fitness", "#treino", "#vidasaudavel", "#academia", "#nopainnogain", "#foco", "#saude"},
	"café":           {"#café", "#coffeelover", "#cafedamanha", "#baristalife", "#coffeetime", "#cafeteria"},
	"flores":         {"#flores", "#floricultura", "#flowerstagram", "#buque", "#floresdodia", "#natureza"},
	"vendas":         {"#vendas", "#promocao", "#oferta", "#desconto", "#compreagora", "#novidade"},
	"marketing":      {"#marketing", "#marketingdigital", "#branding", "#socialmedia", "#empreendedorismo", "#negocios"},
	"moda":           {"#moda", "#fashion", "#lookdodia", "#estilo", "#tendencia", "#ootd"},
	"comida":         {"#comida", "#foodporn", "#gastronomia", "#delicia", "#receitas", "#foodlover"},
	"pet":            {"#pet", "#petlovers", "#cachorro", "#gato", "#petshop", "#amoanimais"},
	"beleza":         {"#beleza", "#beauty", "#makeup", "#skincare", "#autoestima", "#salaodebeleza"},
	"psicologia":     {"#psicologia", "#saudemental", "#terapia", "#bemestar", "#autoconhecimento", "#mindfulness"},
	"relacionamento": {"#relacionamento", "#amor", "#casal", "#namoro", "#vidaadois", "#love"},
	"viagem":         {"#viagem", "#travel", "#turismo", "#wanderlust", "#feriasperfeitas", "#destinos"},
}

// Names returns the category names in a stable sorted order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is in the fixed category set.
func Known(name string) bool {
	_, ok := table[name]
	return ok
}

// Hashtags returns the curated list for a category, nil when unknown.
// Callers must not mutate the returned slice.
func Hashtags(name string) []string {
	return table[name]
}
