// Package configs resolves the file layout and editor choice for a Rata
// invocation.
//
// A Settings value is built once per command from flags and environment
// variables, then handed to workflows. Nothing in this package is global:
// two invocations with different flags never observe each other's state.
package configs
