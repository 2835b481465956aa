package authorize

import "github.com/thanhyclinic/schedule_backend/config"

const defaultModelPath = "casbin_model.conf"

type Config struct {
	CasbinModelPath    string
	EnableAudit        bool // wrap the enforcer in AuditedAuthorization
	HealthCheckEnabled bool // fail readiness while IsPolicyHealthy is false
}

func FromCentralConfig(c config.AuthorizationConfig) Config {
	out := Config{
		CasbinModelPath:    c.CasbinModelPath,
		EnableAudit:        c.EnableAudit,
		HealthCheckEnabled: c.HealthCheckEnabled,
	}
	if out.CasbinModelPath == "" {
		out.CasbinModelPath = defaultModelPath
	}
	return out
}
