//go:build linux

package main

// The evdev backend reads devices from plain goroutines and has no
// main-thread requirement.
func main() {
	run()
}
