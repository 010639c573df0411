/*
Package observability turns screen activity into structured logs and Prometheus
metrics.

Step containers report through step.Hooks; Metrics.StepHooks returns hooks that
log every transition and count it. Sessions report alerts and their own
lifetime through the remaining methods.
*/
package observability
