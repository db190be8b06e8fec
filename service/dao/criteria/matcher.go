package criteria

import (
	"github.com/viant/chatflow/service/dao"
)

// Field returns the entity value of a named filter and whether the entity has it.
type Field func(name string) (interface{}, bool)

// Match reports whether the entity satisfies every parameter. Parameters
// naming fields the entity does not expose are ignored.
func Match(field Field, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		value, ok := field(parameter.Name)
		if !ok {
			continue
		}
		if !matches(value, parameter.Value) {
			return false
		}
	}
	return true
}

func matches(value, expected interface{}) bool {
	switch actual := expected.(type) {
	case []string:
		text, ok := value.(string)
		if !ok {
			return false
		}
		for _, candidate := range actual {
			if text == candidate {
				return true
			}
		}
		return false
	default:
		return value == expected
	}
}
