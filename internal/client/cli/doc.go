// Package cli provides the vcdash command-line client.
//
// It wires configuration, the local session database, the REST client and
// the application services, and exposes them as subcommands plus an
// interactive shell. Typical flow: `vcdash login`, then `vcdash companies`
// and `vcdash company -id 7`, or `vcdash shell` to browse interactively.
//
// Key features:
//   - Login / Signup / Logout with TOTP enrollment after signup
//   - Password reset with a backup code or OTP
//   - Company roster filtered by sector
//   - Company metrics by category and reporting period
//
// Commands that need a session run the route guard first; see Guard.
package cli
