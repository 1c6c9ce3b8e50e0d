// Package zipcode resolves Mexican postal codes to state/city/colony data
// and drives the progressive address form behind the checkout page.
package zipcode

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StateCode is one of the 32 Mexican state abbreviations.
type StateCode string

// States maps each code to its display label, ordered by label.
var States = []struct {
	Code  StateCode
	Label string
}{
	{"AGU", "Aguascalientes"},
	{"BCN", "Baja California"},
	{"BCS", "Baja California Sur"},
	{"CAM", "Campeche"},
	{"CHP", "Chiapas"},
	{"CHH", "Chihuahua"},
	{"CMX", "Ciudad de México"},
	{"COA", "Coahuila"},
	{"COL", "Colima"},
	{"DUR", "Durango"},
	{"MEX", "Estado de México"},
	{"GUA", "Guanajuato"},
	{"GRO", "Guerrero"},
	{"HID", "Hidalgo"},
	{"JAL", "Jalisco"},
	{"MIC", "Michoacán"},
	{"MOR", "Morelos"},
	{"NAY", "Nayarit"},
	{"NLE", "Nuevo León"},
	{"OAX", "Oaxaca"},
	{"PUE", "Puebla"},
	{"QUE", "Querétaro"},
	{"ROO", "Quintana Roo"},
	{"SLP", "San Luis Potosí"},
	{"SIN", "Sinaloa"},
	{"SON", "Sonora"},
	{"TAB", "Tabasco"},
	{"TAM", "Tamaulipas"},
	{"TLA", "Tlaxcala"},
	{"VER", "Veracruz"},
	{"YUC", "Yucatán"},
	{"ZAC", "Zacatecas"},
}

// Upstream spells some states with their full official name; map every
// known spelling (accent-stripped, lowercased) to a code.
var stateNameToCode = map[string]StateCode{
	"aguascalientes":                    "AGU",
	"baja california":                   "BCN",
	"baja california sur":               "BCS",
	"campeche":                          "CAM",
	"chiapas":                           "CHP",
	"chihuahua":                         "CHH",
	"coahuila":                          "COA",
	"coahuila de zaragoza":              "COA",
	"colima":                            "COL",
	"ciudad de mexico":                  "CMX",
	"distrito federal":                  "CMX",
	"durango":                           "DUR",
	"guanajuato":                        "GUA",
	"guerrero":                          "GRO",
	"hidalgo":                           "HID",
	"jalisco":                           "JAL",
	"estado de mexico":                  "MEX",
	"mexico":                            "MEX",
	"michoacan":                         "MIC",
	"michoacan de ocampo":               "MIC",
	"morelos":                           "MOR",
	"nayarit":                           "NAY",
	"nuevo leon":                        "NLE",
	"oaxaca":                            "OAX",
	"puebla":                            "PUE",
	"queretaro":                         "QUE",
	"queretaro de arteaga":              "QUE",
	"quintana roo":                      "ROO",
	"san luis potosi":                   "SLP",
	"sinaloa":                           "SIN",
	"sonora":                            "SON",
	"tabasco":                           "TAB",
	"tamaulipas":                        "TAM",
	"tlaxcala":                          "TLA",
	"veracruz":                          "VER",
	"veracruz de ignacio de la llave":   "VER",
	"yucatan":                           "YUC",
	"zacatecas":                         "ZAC",
}

// StateCodeFromName resolves a state name as spelled by the upstream API to
// its code. Returns "" when the name is unknown.
func StateCodeFromName(name string) StateCode {
	return stateNameToCode[normalizeStateName(name)]
}

// StateLabel returns the display label for a code, or "" when unknown.
func StateLabel(code StateCode) string {
	for _, s := range States {
		if s.Code == code {
			return s.Label
		}
	}
	return ""
}

// ValidStateCode reports whether code is one of the 32 states.
func ValidStateCode(code string) bool {
	return StateLabel(StateCode(code)) != ""
}

func normalizeStateName(name string) string {
	stripped, _, err := transform.String(transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	), name)
	if err != nil {
		stripped = name
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}
