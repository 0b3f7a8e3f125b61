// Package version exposes build version information for the createsend
// client and derives the User-Agent it sends.
//
// Version and commit are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/createsend/version.Version=1.2.0"
package version
