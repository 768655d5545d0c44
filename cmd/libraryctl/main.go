// Command libraryctl is a terminal front end for the library backend: it
// dispatches intents into the client store and renders slice snapshots and
// dashboard metrics.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
