package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Feature column names in the order the classifier was trained on.
const (
	FeatureOrbitalPeriod   = "orbital_period"
	FeatureTransitDuration = "transit_duration"
	FeaturePlanetRadius    = "planet_radius"
	FeatureStellarTemp     = "stellar_temp"
	FeatureStellarRadius   = "stellar_radius"
)

// FeatureColumns lists the required feature columns in canonical order.
var FeatureColumns = []string{
	FeatureOrbitalPeriod,
	FeatureTransitDuration,
	FeaturePlanetRadius,
	FeatureStellarTemp,
	FeatureStellarRadius,
}

// Columns appended to uploaded datasets.
const (
	PredictionColumn  = "pred_exoplanet"
	ProbabilityColumn = "prob_exoplanet"
)

// Number is a float64 that also accepts a JSON string holding a number.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("value is not a number: null")
	}
	var raw string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	} else {
		raw = string(b)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("value is not a number: %s", string(b))
	}
	*n = Number(f)
	return nil
}

// FeatureRecord is one validated row of classifier inputs.
type FeatureRecord struct {
	// example: 365
	OrbitalPeriod float64 `json:"orbital_period" example:"365"`
	// example: 0.5
	TransitDuration float64 `json:"transit_duration" example:"0.5"`
	// example: 1
	PlanetRadius float64 `json:"planet_radius" example:"1"`
	// example: 5800
	StellarTemp float64 `json:"stellar_temp" example:"5800"`
	// example: 1
	StellarRadius float64 `json:"stellar_radius" example:"1"`
}

// Value returns the named feature.
func (r FeatureRecord) Value(name string) (float64, bool) {
	switch name {
	case FeatureOrbitalPeriod:
		return r.OrbitalPeriod, true
	case FeatureTransitDuration:
		return r.TransitDuration, true
	case FeaturePlanetRadius:
		return r.PlanetRadius, true
	case FeatureStellarTemp:
		return r.StellarTemp, true
	case FeatureStellarRadius:
		return r.StellarRadius, true
	}
	return 0, false
}

// Row is a JSON object whose key order is preserved.
type Row struct {
	Keys   []string
	Values map[string]json.RawMessage
}

// NewRow builds a Row from ordered key/value pairs.
func NewRow(keys []string, values map[string]float64) Row {
	r := Row{Values: make(map[string]json.RawMessage, len(keys))}
	for _, k := range keys {
		v, ok := values[k]
		if !ok {
			continue
		}
		r.Keys = append(r.Keys, k)
		r.Values[k] = json.RawMessage(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return r
}

func (r *Row) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("row must be a JSON object")
	}
	r.Keys = r.Keys[:0]
	r.Values = make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("row key must be a string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if _, dup := r.Values[key]; !dup {
			r.Keys = append(r.Keys, key)
		}
		r.Values[key] = raw
	}
	_, err = dec.Token()
	return err
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		v := r.Values[k]
		if len(v) == 0 {
			v = json.RawMessage("null")
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Float returns the value stored under key coerced to a float64.
func (r Row) Float(key string) (float64, bool, error) {
	raw, ok := r.Values[key]
	if !ok {
		return 0, false, nil
	}
	var n Number
	if err := n.UnmarshalJSON(raw); err != nil {
		return 0, true, err
	}
	return float64(n), true, nil
}
