// Package cli provides the gymdesk terminal client.
//
// It wires configuration, the secure credential store, the API gateway and
// the screen services behind a cobra command tree. Without a subcommand the
// client starts an interactive shell whose prompt shows the signed-in user,
// their role and whether the backend is reachable.
//
// Commands by role:
//   - everyone: login, register, oauth, status, scan
//   - trainee: dashboard, payments, analytics, plans, progress, chat
//   - gym manager: gym, registergym, roster, addmember, assign, removemember,
//     attendance, pay, payments, member, workout, diet
//   - trainer: member, workout, diet
//   - head admin: gyms, creategym, activate, suspend, subscription,
//     deletegym, member
//
// The shell is started via App.Shell, which blocks until the user exits.
// See NewRootCommand for the one-shot subcommands.
package cli
