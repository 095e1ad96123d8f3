package domain

// Result is the normalized envelope every entry point returns: either a
// success carrying the provider's message id, or a failure carrying an
// error description. Never both, never neither.
type Result struct {
	Success           bool
	ProviderMessageID string
	Error             string
	Accepted          []string
	QuotaRemaining    *int
}

func Succeeded(providerMessageID string) Result {
	return Result{Success: true, ProviderMessageID: providerMessageID}
}

func Failed(err error) Result {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Result{Error: msg}
}

func (r Result) Valid() bool {
	if r.Success {
		return r.ProviderMessageID != "" && r.Error == ""
	}
	return r.Error != "" && r.ProviderMessageID == ""
}
