package bleiso

// CoordinatorOption is implemented by the CIS coordinator to accept configuration options
type CoordinatorOption interface {
	SetSetupDelay(usec uint32) error
	SetMaxGroups(n int) error
	SetMaxStreams(n int) error
	SetHostSupport(enabled bool) error
	SetPDUWriter(w func([]byte) error) error
	SetEventWriter(w func([]byte) error) error
	SetBodBuilder(b interface{}) error
	SetLogger(l Logger) error
}

// An Option is a configuration function, which configures the coordinator.
type Option func(CoordinatorOption) error

// OptSetupDelay sets the fixed radio scheduling setup delay in microseconds.
func OptSetupDelay(usec uint32) Option {
	return func(opt CoordinatorOption) error {
		return opt.SetSetupDelay(usec)
	}
}

// OptMaxGroups limits the number of CIGs per connection.
func OptMaxGroups(n int) Option {
	return func(opt CoordinatorOption) error {
		return opt.SetMaxGroups(n)
	}
}

// OptMaxStreams limits the number of stream contexts per connection.
func OptMaxStreams(n int) Option {
	return func(opt CoordinatorOption) error {
		return opt.SetMaxStreams(n)
	}
}

// OptHostSupport enables or disables the host's connected isochronous channel support.
func OptHostSupport(enabled bool) Option {
	return func(opt CoordinatorOption) error {
		return opt.SetHostSupport(enabled)
	}
}

// OptPDUWriter sets where outbound LLCP PDUs are written
func OptPDUWriter(w func([]byte) error) Option {
	return func(opt CoordinatorOption) error {
		return opt.SetPDUWriter(w)
	}
}

// OptEventWriter sets where outbound HCI events are written
func OptEventWriter(w func([]byte) error) Option {
	return func(opt CoordinatorOption) error {
		return opt.SetEventWriter(w)
	}
}

// OptBodBuilder sets the collaborator that commits CIG schedule entries
func OptBodBuilder(b interface{}) Option {
	return func(opt CoordinatorOption) error {
		return opt.SetBodBuilder(b)
	}
}

// OptLogger overrides the package logger for one coordinator.
func OptLogger(l Logger) Option {
	return func(opt CoordinatorOption) error {
		return opt.SetLogger(l)
	}
}
