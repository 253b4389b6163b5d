package main

import (
	"context"
	"fmt"
	"os"

	svrcmd "github.com/cosmos/cosmos-sdk/server/cmd"

	"github.com/veil-protocol/veil/app"
	"github.com/veil-protocol/veil/cmd/veild/cmd"
)

func main() {
	home := resolveNodeHome(os.Args[1:])
	metricsPort, healthPort := loadTelemetryPorts(home)
	rpcEndpoint := resolveRPCAddress(home)

	// Start Prometheus metrics server on the configured port.
	StartPrometheusServer(metricsPort)

	// Initialize OpenTelemetry tracing when configured via environment.
	if provider, err := initTracing(); err != nil {
		fmt.Printf("tracing disabled: %v\n", err)
	} else if provider != nil {
		defer func() { _ = provider.Shutdown(context.Background()) }()
	}

	// Start health check server with the configured port + RPC endpoint.
	nodeChecker := NewSimpleNodeChecker(rpcEndpoint)
	StartHealthCheckServer(healthPort, nodeChecker)

	rootCmd := cmd.NewRootCmd(false)

	if err := svrcmd.Execute(rootCmd, "", app.DefaultNodeHome); err != nil {
		os.Exit(1)
	}
}
