package validation

// Message keys
const (
	msgRequired    = "required"
	msgNumber      = "number"
	msgMin         = "min"
	msgMax         = "max"
	msgPositiveInt = "positive_int"
	msgDate        = "date"
	msgOneOf       = "one_of"
	msgTooLong     = "too_long"
	msgTooShort    = "too_short"
)

var catalogs = map[string]map[string]string{
	"fr": {
		msgRequired:    "%s est requis",
		msgNumber:      "%s doit être un nombre",
		msgMin:         "%s doit être supérieur ou égal à %v",
		msgMax:         "%s doit être inférieur ou égal à %v",
		msgPositiveInt: "%s doit être un entier positif",
		msgDate:        "%s doit être une date au format AAAA-MM-JJ",
		msgOneOf:       "%s doit être l'une des valeurs : %s",
		msgTooLong:     "%s ne doit pas dépasser %v caractères",
		msgTooShort:    "%s doit contenir au moins %v caractères",
	},
	"en": {
		msgRequired:    "%s is required",
		msgNumber:      "%s must be a number",
		msgMin:         "%s must be greater than or equal to %v",
		msgMax:         "%s must be less than or equal to %v",
		msgPositiveInt: "%s must be a positive integer",
		msgDate:        "%s must be a date formatted YYYY-MM-DD",
		msgOneOf:       "%s must be one of: %s",
		msgTooLong:     "%s must be at most %v characters",
		msgTooShort:    "%s must be at least %v characters",
	},
}

// DefaultLocale is used when the requested locale has no catalog.
const DefaultLocale = "fr"

func catalog(locale string) map[string]string {
	if c, ok := catalogs[locale]; ok {
		return c
	}
	return catalogs[DefaultLocale]
}
