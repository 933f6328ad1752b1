// Package utils holds small terminal helpers shared by commands and
// workflows.
package utils
