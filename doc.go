// Package identity provides the account core of the blog platform:
// credential authentication, bitmask role permissions, and the signed-token
// account lifecycle (activation, password recovery, email change).
//
// Tokens:
//   - Lifecycle tokens are stateless HS256 capsules scoped to a single
//     purpose salt. Verification is signature + clock only; no database
//     lookup happens before a token is accepted, so tokens survive process
//     restarts and rotating the signing secret invalidates everything
//     outstanding.
//
// Sessions:
//   - Login yields a SessionObject even for accounts that have not completed
//     activation. Callers must gate everything except the activation views
//     behind SessionObject.Activated.
//
// Notifications:
//   - Lifecycle commands hand mail off to a Notifier through AsyncDispatcher,
//     which is fire and forget: delivery failures are logged and dropped.
//     There is no retry or delivery confirmation; treat the dispatcher as
//     best effort.
package identity
