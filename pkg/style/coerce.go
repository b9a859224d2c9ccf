package style

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	errNotString  = errors.New("expected a string")
	errNotNumber  = errors.New("expected a finite number")
	errNotBoolean = errors.New("expected a boolean")
)

func asString(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", errNotString
	}
	return s, nil
}

func asFloat(raw any) (float64, error) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, errNotNumber
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, errNotNumber
		}
		f = parsed
	default:
		return 0, errNotNumber
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumber
	}
	return f, nil
}

func asBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
	case json.Number, float64, int, int64:
		f, err := asFloat(v)
		if err == nil && (f == 0 || f == 1) {
			return f == 1, nil
		}
	}
	return false, errNotBoolean
}

func asAlignment(raw any) (Alignment, error) {
	s, ok := raw.(string)
	if !ok {
		return "", errNotString
	}
	a := Alignment(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown alignment %q (want LEFT, CENTER, RIGHT or JUSTIFY)", s)
	}
	return a, nil
}
