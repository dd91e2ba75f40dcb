package core

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/cardiorisk/cardiorisk/schema"
)

// parsedInput is a validated RawInput split into numeric and categorical values.
type parsedInput struct {
	numeric     map[string]float64
	categorical map[string]string
}

// parseInput validates every field in form order and stops at the first failure.
func parseInput(raw schema.RawInput) (*parsedInput, error) {
	p := &parsedInput{
		numeric:     make(map[string]float64, len(schema.Fields)),
		categorical: make(map[string]string, len(schema.CategoricalFields)),
	}
	for _, f := range schema.Fields {
		value, ok := raw[f.Name]
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			return nil, &schema.ValidationError{Field: f.Name, Reason: "value is required"}
		}
		switch f.Kind {
		case schema.IntKind:
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, &schema.ValidationError{Field: f.Name, Reason: "must be a whole number, got " + strconv.Quote(value)}
			}
			p.numeric[f.Name] = float64(n)
		case schema.BinaryKind:
			n, err := strconv.Atoi(value)
			if err != nil || (n != 0 && n != 1) {
				return nil, &schema.ValidationError{Field: f.Name, Reason: "must be 0 or 1, got " + strconv.Quote(value)}
			}
			p.numeric[f.Name] = float64(n)
		case schema.FloatKind:
			x, err := strconv.ParseFloat(value, 64)
			if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, &schema.ValidationError{Field: f.Name, Reason: "must be a finite number, got " + strconv.Quote(value)}
			}
			p.numeric[f.Name] = x
		case schema.CategoricalKind:
			p.categorical[f.Name] = value
		}
	}
	return p, nil
}

// Encode turns a RawInput into a vector aligned to fs.
//
// Numeric fields are copied to their column. Each categorical field sets
// its "<field>_<value>" indicator to 1. Indicators the schema does not know
// are dropped, so an unseen category leaves all of that field's columns at 0.
// Extra keys in raw are ignored.
func Encode(raw schema.RawInput, fs *FeatureSchema) ([]float64, error) {
	if fs == nil {
		return nil, errors.New("nil feature schema")
	}
	p, err := parseInput(raw)
	if err != nil {
		return nil, err
	}
	return p.project(fs), nil
}

func (p *parsedInput) project(fs *FeatureSchema) []float64 {
	vec := make([]float64, fs.Len())
	for name, v := range p.numeric {
		if i, ok := fs.Index(name); ok {
			vec[i] = v
		}
	}
	for name, v := range p.categorical {
		if i, ok := fs.Index(schema.IndicatorColumn(name, v)); ok {
			vec[i] = 1
		}
	}
	return vec
}

// UnknownCategories lists the categorical fields of raw whose value has no
// indicator column in fs, formatted as "<field>=<value>" in form order.
// Missing or blank fields are not reported here; Encode rejects them.
func UnknownCategories(raw schema.RawInput, fs *FeatureSchema) []string {
	if fs == nil {
		return nil
	}
	var out []string
	for _, name := range schema.CategoricalFields {
		value := strings.TrimSpace(raw[name])
		if value == "" {
			continue
		}
		if _, ok := fs.Index(schema.IndicatorColumn(name, value)); !ok {
			out = append(out, name+"="+value)
		}
	}
	return out
}
