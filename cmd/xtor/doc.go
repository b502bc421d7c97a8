// Package main hosts the xtor CLI entrypoint and command graph.
//
// The Cobra-based command tree manages feed subscriptions, lists and pages
// through a feed's videos, shows video details, resolves route paths,
// launches the configured media player, and offers an interactive browser. It centralizes configuration
// resolution, storage selection, and logging setup so subcommands only deal
// with the feed directory.
//
// Keep this package lean: behaviour belongs in the internal packages; commands
// here parse flags, call into the directory, and render results.
package main
