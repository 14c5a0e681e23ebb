// Package remote wraps the audiokit remote processing service behind a
// single logical call: submit an operation with a payload and parameters,
// get a result or a classified error back.
//
// The classification matters to the dispatcher: transport failures
// (connection, timeout, auth) are REMOTE_TRANSPORT while remote-side
// processing failures are REMOTE_SERVICE. Both are terminal — remote is the
// last resort, so no further fallback applies.
package remote
