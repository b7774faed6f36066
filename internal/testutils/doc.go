// Package testutils provides helpers shared by tests across packages:
// building small but real PDF documents, multipart upload bodies, and
// common HTTP response assertions.
package testutils
