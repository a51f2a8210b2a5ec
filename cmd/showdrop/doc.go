// Command showdrop is the CLI entry point for the episode-distribution bot:
// the long-running `run` daemon plus catalog and configuration utilities.
package main
