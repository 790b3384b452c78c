// Package app wires the trainpulse HTTP service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Initialize logging and OpenTelemetry from the configuration
//	2. Create the Sheets fetcher with tracing and fetch metrics
//	3. Build the data and health services on top of it
//	4. Set up middleware, handlers and the HTTP server
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests
// within the configured shutdown timeout and flushes telemetry. The
// package never calls os.Exit; errors are returned to main.
package app
