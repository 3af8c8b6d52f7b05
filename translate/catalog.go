package translate

import (
	"golang.org/x/text/language"
)

// catalog holds the translations shipped with the simulator.
// Every language carries the same set of keys.
var catalog = map[language.Tag]map[string]string{
	language.German: {
		"fetching instruction from program memory": "Befehl wird aus dem Programmspeicher geholt",
		"decoding instruction":                     "Befehl wird dekodiert",
		"executing instruction":                    "Befehl wird ausgeführt",
		"index out of range":                       "Index außerhalb des Bereichs",
		"unsupported opcode":                       "nicht unterstützter Opcode",
		"invalid state":                            "ungültiger Zustand",
		"no current state":                         "kein aktueller Zustand",
		"invalid configuration":                    "ungültige Konfiguration",
		".equ syntax":                              ".equ Syntaxfehler",
		".equ duplicated":                          ".equ doppelt definiert",
		"excessive arguments":                      "zu viele Argumente",
		"argument missing":                         "Argument fehlt",
		"opcode invalid":                           "ungültiger Opcode",
		"register invalid":                         "ungültiges Register",
		"program exceeds program memory":           "Programm überschreitet den Programmspeicher",
		"%v index %d out of range [0, %d)":         "%v Index %d außerhalb des Bereichs [0, %d)",
		"bad opcode 0x%08x %v":                     "falscher Opcode 0x%08x %v",
		"line %d '%v' %v":                          "Zeile %d '%v' %v",
		"'%v' is not a number":                     "'%v' ist keine Zahl",
		"$(%v) is not a valid expression":          "$(%v) ist kein gültiger Ausdruck",
		"'%v' is not a control phase":              "'%v' ist keine Steuerphase",
		"line %d %v":                               "Zeile %d %v",
		"tick limit reached":                       "Taktlimit erreicht",
		"pc %d %v":                                 "PC %d %v",
		"image address invalid":                    "ungültige Adresse im Abbild",
		"image word invalid":                       "ungültiges Wort im Abbild",
		"image ends inside a word":                 "Abbild endet innerhalb eines Wortes",
	},
	language.French: {
		"fetching instruction from program memory": "lecture de l'instruction en mémoire programme",
		"decoding instruction":                     "décodage de l'instruction",
		"executing instruction":                    "exécution de l'instruction",
		"index out of range":                       "index hors limites",
		"unsupported opcode":                       "opcode non pris en charge",
		"invalid state":                            "état invalide",
		"no current state":                         "aucun état courant",
		"invalid configuration":                    "configuration invalide",
		".equ syntax":                              "syntaxe .equ",
		".equ duplicated":                          ".equ en double",
		"excessive arguments":                      "trop d'arguments",
		"argument missing":                         "argument manquant",
		"opcode invalid":                           "opcode invalide",
		"register invalid":                         "registre invalide",
		"program exceeds program memory":           "le programme dépasse la mémoire programme",
		"%v index %d out of range [0, %d)":         "%v index %d hors limites [0, %d)",
		"bad opcode 0x%08x %v":                     "mauvais opcode 0x%08x %v",
		"line %d '%v' %v":                          "ligne %d '%v' %v",
		"'%v' is not a number":                     "'%v' n'est pas un nombre",
		"$(%v) is not a valid expression":          "$(%v) n'est pas une expression valide",
		"'%v' is not a control phase":              "'%v' n'est pas une phase de contrôle",
		"line %d %v":                               "ligne %d %v",
		"tick limit reached":                       "limite de cycles atteinte",
		"pc %d %v":                                 "pc %d %v",
		"image address invalid":                    "adresse d'image invalide",
		"image word invalid":                       "mot d'image invalide",
		"image ends inside a word":                 "l'image se termine au milieu d'un mot",
	},
}
