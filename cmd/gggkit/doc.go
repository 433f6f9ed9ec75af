// Package main hosts the gggkit CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into runlog
// rewrites, spectrum summaries, catalog scans and queries, and
// configuration scaffolding. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on presentation.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
