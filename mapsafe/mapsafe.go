package mapsafe

// Get retrieves a typed value from a map[string]any.
// If the key is missing or the type cannot be converted, it returns the default value.
// Numbers decoded from JSON arrive as float64 and are converted to int/int64 as needed.
func Get[T any](m map[string]any, key string, defaultValue T) T {
	if val, ok := m[key]; ok {
		switch any(defaultValue).(type) {
		case int:
			switch x := val.(type) {
			case int:
				return any(x).(T)
			case int64:
				return any(int(x)).(T)
			case float64:
				return any(int(x)).(T)
			}
		case int64:
			switch x := val.(type) {
			case int64:
				return any(x).(T)
			case int:
				return any(int64(x)).(T)
			case float64:
				return any(int64(x)).(T)
			}
		case float64:
			switch x := val.(type) {
			case float64:
				return any(x).(T)
			case int:
				return any(float64(x)).(T)
			case int64:
				return any(float64(x)).(T)
			}
		case string:
			if s, ok := val.(string); ok {
				return any(s).(T)
			}
		case bool:
			if b, ok := val.(bool); ok {
				return any(b).(T)
			}
		default:
			// fallback: if type matches exactly
			if v2, ok := val.(T); ok {
				return v2
			}
		}
	}
	return defaultValue
}

// GetStrings retrieves a list of strings, accepting both []string and the
// []any produced by encoding/json. Non-string elements are skipped.
func GetStrings(m map[string]any, key string) []string {
	switch x := m[key].(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, v := range x {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
