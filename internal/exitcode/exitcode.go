// Package exitcode lists the process exit codes returned by tasco commands.
package exitcode

const (
	// Success means the command did what was asked.
	Success = 0

	// UserError covers bad arguments, empty titles and out-of-range task numbers.
	UserError = 1

	// AuthError covers a missing session, rejected credentials and config problems.
	AuthError = 2

	// BackendError covers network failures and unexpected API responses.
	BackendError = 3
)
