package services

// ValidationErr is a bad-input failure tied to one request field. Handlers
// turn it into a 400 with the field named; anything else coming out of a
// service is treated as internal.
type ValidationErr struct {
	Field   string
	Message string
}

func (e *ValidationErr) Error() string {
	return e.Field + ": " + e.Message
}
