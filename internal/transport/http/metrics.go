package httptransport

import "expvar"

var (
	metricRequestErrors = expvar.NewMap("http_errors_by_code")
	metricAdminResets   = expvar.NewInt("admin_season_reset_total")
)
