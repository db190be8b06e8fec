// Package result stores finished execution results for later inspection.
package result

import (
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/dao"
	"github.com/viant/chatflow/service/dao/criteria"
)

// Store persists execution results keyed by execution id.
type Store interface {
	dao.Service[string, execution.Result]
}

// Field exposes filterable result attributes.
func Field(r *execution.Result) criteria.Field {
	return func(name string) (interface{}, bool) {
		switch name {
		case "Success":
			return r.Success, true
		case "Intent":
			return r.Intent(), true
		}
		return nil, false
	}
}
