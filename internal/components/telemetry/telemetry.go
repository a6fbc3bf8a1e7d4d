package telemetry

// API is where components report what happened to them, tests swap it for a recorder
// to assert a component complained.
//
// note: fault injection point
type API interface {
	// ReportBroken reports a failure someone needs to look at. id names the component
	// and operation in lowercase, dashes between words (ex. `updater.update-entity`),
	// the entity and the error go into params.
	ReportBroken(id string, params ...any)
	// ReportWarning reports something worth investigating that did not stop the pipeline,
	// id follows ReportBroken.
	ReportWarning(id string, params ...any)
	// ReportDebug is dropped unless debug logging is on.
	ReportDebug(msg string, params ...any)
	// ReportCount reports how many times an event happened in one run, counts are points
	// in time and should not be summed across runs.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id it reports with a namespace, scopes nest
// (`report: dispatcher.dispatch`).
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return s.namespace + ": " + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scoped(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}
