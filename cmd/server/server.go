// Package main is the entry point of the url-shrinker server.
// It sets up and starts the server by calling initialization functions from the internal package.
package main

import (
	"url-shrinker/internal"
)

func main() {
	internal.Init()
}
