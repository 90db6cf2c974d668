package validation

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

func saisieFields() []Field {
	return []Field{
		{Name: "engin_id", Label: "Engin", Required: true},
		{Name: "du", Label: "Date", Required: true, Rules: []Rule{Date()}},
		{Name: "hrm", Label: "HRM", Required: true, Rules: []Rule{Min(0), Max(24)}},
		{Name: "ni", Label: "NI", Rules: []Rule{PositiveInt()}},
	}
}

func TestValidate_OK(t *testing.T) {
	s := BuildSchema("fr", saisieFields()...)
	errs := s.Validate(map[string]any{"engin_id": "e1", "du": "2024-03-15", "hrm": 20.0, "ni": 2.0})
	assert.Nil(t, errs)
	assert.NoError(t, s.Check(map[string]any{"engin_id": "e1", "du": "2024-03-15", "hrm": "12,5"}))
}

func TestValidate_FrenchMessages(t *testing.T) {
	s := BuildSchema("fr", saisieFields()...)
	errs := s.Validate(map[string]any{"du": "15/03/2024", "hrm": 30.0, "ni": 1.5})

	assert.Equal(t, "Engin est requis", errs["engin_id"])
	assert.Equal(t, "Date doit être une date au format AAAA-MM-JJ", errs["du"])
	assert.Equal(t, "HRM doit être inférieur ou égal à 24", errs["hrm"])
	assert.Equal(t, "NI doit être un entier positif", errs["ni"])
}

func TestValidate_EnglishMessages(t *testing.T) {
	s := BuildSchema("en", saisieFields()...)
	errs := s.Validate(map[string]any{"engin_id": "e1", "du": time.Now(), "hrm": -1.0})

	assert.Equal(t, "HRM must be greater than or equal to 0", errs["hrm"])
	assert.Len(t, errs, 1)
}

func TestBuildSchema_LocalesAreIndependent(t *testing.T) {
	fr := BuildSchema("fr", saisieFields()...)
	en := BuildSchema("EN", saisieFields()...)
	unknown := BuildSchema("de", saisieFields()...)

	assert.Equal(t, "fr", fr.Locale())
	assert.Equal(t, "en", en.Locale())
	assert.Equal(t, "fr", unknown.Locale())

	// building an English schema must not change the French one
	assert.Equal(t, "Engin est requis", fr.Validate(map[string]any{})["engin_id"])
	assert.Equal(t, "Engin is required", en.Validate(map[string]any{})["engin_id"])
}

func TestOneOf(t *testing.T) {
	s := BuildSchema("fr", Field{Name: "type", Required: true, Rules: []Rule{OneOf("huile", "go", "graisse")}})
	assert.Nil(t, s.Validate(map[string]any{"type": "Huile"}))
	assert.Equal(t, "type doit être l'une des valeurs : huile, go, graisse", s.Validate(map[string]any{"type": "eau"})["type"])
}

func TestCheck_WrapsValidationError(t *testing.T) {
	err := BuildSchema("fr", saisieFields()...).Check(map[string]any{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Données invalides", verr.Message)
	assert.Len(t, verr.Fields, 3)
}

func TestMax_WholeBoundPrintsWithoutExponent(t *testing.T) {
	s := BuildSchema("fr", Field{Name: "ni", Label: "NI", Rules: []Rule{PositiveInt(), Max(math.MaxInt32)}})

	assert.Nil(t, s.Validate(map[string]any{"ni": float64(math.MaxInt32)}))
	assert.Equal(t, "NI doit être inférieur ou égal à 2147483647", s.Validate(map[string]any{"ni": 1e20})["ni"])
}
