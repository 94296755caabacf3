package domain

// ViewState tells the client whether a view holds data.
type ViewState string

const (
	ViewReady  ViewState = "ready"
	ViewNoData ViewState = "no_data"
	ViewError  ViewState = "error"
)

// ViewStatus is embedded in every dashboard view.
type ViewStatus struct {
	State ViewState `json:"state"`
	Error string    `json:"error,omitempty"`
}

// StatusFor returns ViewNoData when a view was built from zero rows.
func StatusFor(rows int) ViewStatus {
	if rows == 0 {
		return ViewStatus{State: ViewNoData}
	}
	return ViewStatus{State: ViewReady}
}

// FailedStatus marks a view whose rows could not be fetched.
func FailedStatus(err error) ViewStatus {
	return ViewStatus{State: ViewError, Error: err.Error()}
}

// Failed reports whether the view was degraded by a fetch error.
func (s ViewStatus) Failed() bool {
	return s.State == ViewError
}
