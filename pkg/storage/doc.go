// Package storage is the local key/value store holding talentpipe's durable
// settings: the API base-URL override and the selected project.
//
// Values live in a single JSON document that is rewritten atomically (temp
// file + rename) on every change. Secrets do not belong here; the auth token
// goes through the credential chain in pkg/auth.
package storage
