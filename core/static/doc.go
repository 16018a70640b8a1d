// Package static serves files from a directory through a wildcard route.
//
//	app.At("/assets").Static("./public") // GET /assets/*path
//
// or directly:
//
//	app.At("/files/*path").Get(static.Dir[S, C]("./public", "path"))
//
// The wildcard tail is resolved against the root one segment at a time; any
// attempt to climb above the root is rejected with 403. Directories are never
// listed.
package static
