// Package shell is an interactive line-oriented front end for the timer
// engine. Commands are parsed by Shell.Execute, which is independent of
// the terminal so it can be driven from tests; Run wires it to readline.
package shell
