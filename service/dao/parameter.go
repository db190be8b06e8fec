package dao

// Parameter is a named List filter.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a filter matching one value, or any of several string values.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// NewBoolParameter creates a boolean filter.
func NewBoolParameter(name string, value bool) *Parameter {
	return &Parameter{Name: name, Value: value}
}
