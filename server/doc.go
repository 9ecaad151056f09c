// Package server exposes pipeline execution over HTTP: POST a pipeline
// definition with seed input and receive the produced records plus run
// stats. Built on Gin with graceful shutdown.
package server
