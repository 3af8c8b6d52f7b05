//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package main

func enterRawTerm() (raw bool, err error) {
	return
}

func exitRawTerm() {
}
