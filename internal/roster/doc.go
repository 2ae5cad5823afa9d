// Package roster loads player biographies from the player info snapshot and
// looks them up by name.
package roster
