// Package demo builds a small thermostat screen on top of the binding
// adapters and drives it the way a user would. The observer CLI uses it
// for the demo, serve and repl commands.
package demo
