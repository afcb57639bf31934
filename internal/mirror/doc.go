// Package mirror forwards console output from a remotely-debugged page to
// local subscribers, rewriting source positions from generated bundle
// coordinates to original-author coordinates and detecting live content
// reloads from the page's WebSocket traffic.
//
// The package is organized around five pieces:
//
//   - PreviewBuilder (preview.go): renders a one-line summary of a remote
//     object from the inline preview the session already returned, without
//     further round trips.
//   - Expander (expand.go): fetches a remote object's members on demand,
//     one level at a time.
//   - ReloadDecoder (reload.go): extracts a content-hash change signal
//     from SockJS transport frames.
//   - Record (record.go): the per-event value carrying console kind,
//     arguments, and the generated/original position pair.
//   - Router (router.go): subscribes to session events, builds records,
//     registers source maps for intercepted scripts, and publishes log and
//     update notifications.
//
// All remote object identifiers are owned by the debugging session and are
// only valid while it is alive; nothing in this package assumes an
// identifier survives a session restart.
package mirror
