package location

import "strings"

// countryKeywords answers locations that are literally a country name without
// touching a backend. Exact match only, composite strings like "Berlin,
// Germany" still go through the configured adapter.
var countryKeywords = map[string]string{
	"usa":            "US",
	"united states":  "US",
	"america":        "US",
	"uk":             "GB",
	"united kingdom": "GB",
	"england":        "GB",
	"germany":        "DE",
	"deutschland":    "DE",
	"france":         "FR",
	"spain":          "ES",
	"italy":          "IT",
	"netherlands":    "NL",
	"poland":         "PL",
	"sweden":         "SE",
	"norway":         "NO",
	"switzerland":    "CH",
	"austria":        "AT",
	"russia":         "RU",
	"ukraine":        "UA",
	"turkey":         "TR",
	"iran":           "IR",
	"persia":         "IR",
	"india":          "IN",
	"china":          "CN",
	"japan":          "JP",
	"south korea":    "KR",
	"vietnam":        "VN",
	"viet nam":       "VN",
	"indonesia":      "ID",
	"pakistan":       "PK",
	"brazil":         "BR",
	"brasil":         "BR",
	"argentina":      "AR",
	"mexico":         "MX",
	"canada":         "CA",
	"australia":      "AU",
	"new zealand":    "NZ",
	"egypt":          "EG",
	"nigeria":        "NG",
	"south africa":   "ZA",
}

func lookupKeyword(location string) (string, bool) {
	code, ok := countryKeywords[strings.ToLower(strings.TrimSpace(location))]
	return code, ok
}
