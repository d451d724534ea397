package health

// Checker reports nil when the component it represents is healthy.
type Checker interface {
	Check() error
}

type CheckerFunc func() error

func (f CheckerFunc) Check() error {
	return f()
}
