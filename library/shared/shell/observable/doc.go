// Package observable decorates core command and query handlers with metrics, tracing and logging.
//
// The wrappers only translate outcomes into observability signals, business logic and retries stay in the
// wrapped handler:
//
//	handler, err := observable.NewCommandWrapper(
//		requestloan.NewCommandHandler(eventStore),
//		observable.WithCommandMetrics[requestloan.Command](metricsCollector),
//		observable.WithCommandContextualLogging[requestloan.Command](logger),
//	)
package observable
