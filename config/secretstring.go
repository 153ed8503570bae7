package config

// SecretStringValue replaces actual value whenever secret is printed or
// serialized.
const SecretStringValue = "<secret>"

// SecretString holds credentials (design API token) which must never get
// into logs, dumped configuration or debug reports. Use explicit string
// conversion to get the value.
type SecretString string

func (s SecretString) masked() string {
	if len(s) == 0 {
		return ""
	}
	return SecretStringValue
}

// String implements fmt.Stringer, so zap.Stringer and %v are safe too.
func (s SecretString) String() string {
	return s.masked()
}

// GoString covers %#v.
func (s SecretString) GoString() string {
	return `"` + s.masked() + `"`
}

// MarshalJSON marshals SecretString to JSON, empty secret becomes null.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte(`"` + SecretStringValue + `"`), nil
}

// MarshalYAML marshals SecretString to YAML, empty secret is omitted.
func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretStringValue, nil
}
