// Package config loads bookshelf's TOML configuration.
//
// # Resolution
//
// Load builds a Config in layers:
//
//  1. Built-in defaults
//  2. The TOML file (explicit path, or ~/.config/bookshelf/config.toml)
//  3. BOOKSHELF_* environment variables
//
// A missing file is not an error. Blank values at any layer leave the value
// from the layer below in place. Command-line flags are applied by the caller
// on top of the returned Config.
//
// # Keys
//
//	api_url          base URL of the books API (http://localhost:5000)
//	request_timeout  per-request timeout in seconds (10)
//	log_file         application log (~/.local/state/bookshelf/bookshelf.log)
//	log_level        debug, info, warn or error (info)
//	data_dir         development backend storage (~/.local/share/bookshelf)
//	listen_addr      development backend address (127.0.0.1:5000)
//
// Paths beginning with "~" are expanded against the user's home directory.
package config
