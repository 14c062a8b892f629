// Package observability exports stereodb metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	collector := observability.NewPrometheusCollector(reg)
//	db, _ := stereodb.New(define, stereodb.WithMetricsCollector(collector))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package observability
