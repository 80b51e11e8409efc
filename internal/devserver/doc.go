// Package devserver is a local implementation of the books REST API for
// development and tests.
//
// Books live in a SQLite database and uploaded covers in a directory served
// under /covers/. Routes:
//
//	GET    /api/books        list, insertion order
//	POST   /api/books        create (multipart: title, author, description, cover?)
//	PUT    /api/books/{id}   update; without a cover part the old cover is kept
//	DELETE /api/books/{id}   delete the row and its cover file
//	GET    /covers/*         stored cover files
//	GET    /healthz          liveness
//
// Unknown ids answer 404 and missing text fields 400.
package devserver
