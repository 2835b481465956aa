package logs

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/grafana/loki-client-go/loki"
	promconfig "github.com/prometheus/common/config"
	"github.com/prometheus/common/model"
	slogloki "github.com/samber/slog-loki/v3"

	"github.com/thanhyclinic/schedule_backend/config"
)

// newLokiHandler pushes records to Loki through the batching loki client.
func newLokiHandler(cfg *config.Config, level slog.Level) (slog.Handler, error) {
	lc := cfg.Logging.Output.Loki
	if lc.Endpoint == "" {
		return nil, fmt.Errorf("loki endpoint is empty")
	}

	clientCfg, err := loki.NewDefaultConfig(strings.TrimRight(lc.Endpoint, "/") + "/loki/api/v1/push")
	if err != nil {
		return nil, fmt.Errorf("loki config: %w", err)
	}
	clientCfg.TenantID = lc.TenantID
	clientCfg.ExternalLabels.LabelSet = model.LabelSet{
		"service": model.LabelValue(cfg.Observability.ServiceName),
		"env":     model.LabelValue(cfg.Server.Environment),
	}
	if lc.Username != "" {
		clientCfg.Client.BasicAuth = &promconfig.BasicAuth{
			Username: lc.Username,
			Password: promconfig.Secret(lc.Password),
		}
	}

	client, err := loki.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("loki client: %w", err)
	}

	return slogloki.Option{Level: level, Client: client}.NewLokiHandler(), nil
}
