// Package httpapi exposes a small read-only debug HTTP endpoint listing
// every device known to the registry, for use with curl or a browser
// rather than a Home Assistant integration.
package httpapi
