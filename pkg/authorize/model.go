package authorize

import (
	"fmt"

	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

// DefaultModel is the RBAC-with-domains model used when no model file is
// configured. It matches casbin_model.conf at the repository root.
const DefaultModel = `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act, eft

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = g(r.sub, p.sub, r.dom) && (p.dom == "*" || p.dom == r.dom) && (p.obj == "*" || keyMatch2(r.obj, p.obj)) && (p.act == "*" || keyMatch(r.act, p.act))
`

func loadModel(modelPath string) (model.Model, error) {
	if modelPath == "" {
		return model.NewModelFromString(DefaultModel)
	}
	m, err := model.NewModelFromFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load casbin model %q: %w", modelPath, err)
	}
	return m, nil
}

// NewFileEnforcer builds an enforcer backed by a CSV policy file. It has no
// watcher and does not auto-save; it is meant for tests and local tooling.
func NewFileEnforcer(modelPath, policyPath string) (*casbin.DistributedEnforcer, error) {
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewDistributedEnforcer(m, fileadapter.NewAdapter(policyPath))
	if err != nil {
		return nil, err
	}
	e.EnableAutoSave(false)
	e.EnableEnforce(true)
	return e, nil
}
