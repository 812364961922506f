// Package restcountries is the gateway to the external country-data
// provider (the REST Countries v3.1 API). It is a stateless forwarding
// shim: one HTTP call per lookup, no caching, no retries — upstream
// failures are translated into domain errors and propagated.
package restcountries

// Country mirrors the fields of a REST Countries v3.1 record that our
// clients consume. The provider returns far more; unmarshalling a typed
// subset keeps responses predictable and documents what the API actually
// promises downstream.
type Country struct {
	Name        CountryName         `json:"name"`
	CCA2        string              `json:"cca2"`
	CCA3        string              `json:"cca3"`
	Independent bool                `json:"independent,omitempty"`
	Capital     []string            `json:"capital,omitempty"`
	Region      string              `json:"region"`
	Subregion   string              `json:"subregion,omitempty"`
	Languages   map[string]string   `json:"languages,omitempty"`
	Currencies  map[string]Currency `json:"currencies,omitempty"`
	Population  int64               `json:"population"`
	Flags       Flags               `json:"flags"`
}

// CountryName holds the common and official names ("Estonia" vs
// "Republic of Estonia").
type CountryName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// Currency is one entry of a country's currencies map, keyed by ISO 4217
// code (e.g. "EUR").
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Flags holds the provider's flag image URLs.
type Flags struct {
	PNG string `json:"png"`
	SVG string `json:"svg"`
	Alt string `json:"alt,omitempty"`
}

// MatchesCode reports whether code identifies this country by either its
// 2-letter or 3-letter code. Comparison is caller's responsibility for
// case — codes stored by this application are uppercased at write time.
func (c Country) MatchesCode(code string) bool {
	return c.CCA2 == code || c.CCA3 == code
}
