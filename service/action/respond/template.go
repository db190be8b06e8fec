package respond

import (
	"fmt"
	"strings"
)

// Render replaces {key} placeholders with data values. Doubled braces
// produce literal braces; an unknown key is an error.
func Render(template string, data map[string]string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated placeholder at %d", i)
			}
			key := template[i+1 : i+1+end]
			value, ok := data[key]
			if !ok {
				return "", fmt.Errorf("unknown placeholder {%s}", key)
			}
			b.WriteString(value)
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				i++
			}
			b.WriteByte('}')
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
