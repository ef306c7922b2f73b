package admission

// DeniedError rejects a punch that failed the allow-list check and carries
// the computed diagnostics back to the caller.
type DeniedError struct {
	Result Result
}

func (e *DeniedError) Error() string {
	return "access denied. not on allowed WiFi or device"
}
