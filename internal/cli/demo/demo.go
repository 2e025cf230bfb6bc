// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package demo runs a built-in sample program against a deployment engine
// and displays what got registered. It exists so the SDK can be exercised
// end to end without writing a program first.
package demo

import (
	"context"
	"fmt"
	"os"

	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	fabrica "github.com/platform-engineering-labs/fabrica"
	"github.com/platform-engineering-labs/fabrica/internal/cli/display"
	"github.com/platform-engineering-labs/fabrica/internal/cli/renderer"
	"github.com/platform-engineering-labs/fabrica/internal/config"
	"github.com/platform-engineering-labs/fabrica/internal/enginetest"
	"github.com/platform-engineering-labs/fabrica/pkg/engine"
	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

func DemoCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "demo",
		Short: "Register a sample set of resources and show the result",
		RunE: func(command *cobra.Command, args []string) error {
			endpoint, _ := command.Flags().GetString("engine")
			serial, _ := command.Flags().GetBool("serial")
			preview, _ := command.Flags().GetBool("preview")
			trace, _ := command.Flags().GetBool("trace")
			configFile, _ := command.Flags().GetString("config")

			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if serial {
				cfg.SerialOperations = true
			}

			return run(command.Context(), cfg, endpoint, preview, trace)
		},
	}

	command.Flags().String("engine", "local", "engine endpoint, or 'local' for an in-process engine")
	command.Flags().Bool("serial", false, "serialize all register operations")
	command.Flags().Bool("preview", false, "run as a preview")
	command.Flags().Bool("trace", false, "print otel spans for every remote operation")
	command.Flags().String("config", config.DefaultConfig, "config file path")

	return command
}

func run(ctx context.Context, cfg *config.Client, endpoint string, preview, trace bool) error {
	if trace {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		)
		otel.SetTracerProvider(tp)
		defer func() {
			_ = tp.Shutdown(ctx)
		}()
	}

	if endpoint == "" {
		endpoint = cfg.Endpoint
	}
	if endpoint == "local" {
		local := enginetest.New()
		defer local.Close()
		endpoint = local.URL()
		display.Info("using in-process engine at " + endpoint)
	}

	client := engine.NewHTTPClient(endpoint, nil)
	if err := client.Handshake(ctx); err != nil {
		return err
	}

	var resources []*fabrica.ResourceState
	err := fabrica.Run(ctx, client, func(c *fabrica.Context) error {
		var err error
		resources, err = sampleProgram(c)
		return err
	},
		fabrica.WithPreview(preview),
		fabrica.WithSerialOperations(cfg.SerialOperations),
		fabrica.WithVerboseDebug(cfg.VerboseDebug),
	)
	if err != nil {
		return err
	}

	rows := collect(ctx, resources)

	tree, err := renderer.RenderResourceTree(rows)
	if err != nil {
		return err
	}
	fmt.Println(tree)

	summary, err := renderer.RenderSummary(rows)
	if err != nil {
		return err
	}
	fmt.Println(summary)

	display.Success(fmt.Sprintf("%d resources registered", len(rows)))
	return nil
}

// sampleProgram declares a small resource graph: a component network, a
// custom subnet under it, and a custom instance that depends on the subnet
// both explicitly and through its inputs.
func sampleProgram(c *fabrica.Context) ([]*fabrica.ResourceState, error) {
	network, err := c.RegisterComponentResource("fabrica::network::Network", "app-network", fabrica.Map{
		"cidr": "10.0.0.0/16",
	}, nil)
	if err != nil {
		return nil, err
	}

	subnet, err := c.RegisterResource("fabrica::network::Subnet", "app-subnet", fabrica.Map{
		"network": network,
		"cidr":    "10.0.1.0/24",
	}, &fabrica.ResourceOptions{Parent: network})
	if err != nil {
		return nil, err
	}

	instance, err := c.RegisterResource("fabrica::compute::Instance", "app-server", fabrica.Map{
		"subnet": subnet,
		"size":   "small",
	}, &fabrica.ResourceOptions{
		Parent:    network,
		DependsOn: []*fabrica.ResourceState{subnet},
	})
	if err != nil {
		return nil, err
	}

	if err := c.RegisterResourceOutputs(network, fabrica.Map{
		"instance": instance,
	}); err != nil {
		return nil, err
	}

	return []*fabrica.ResourceState{network, subnet, instance}, nil
}

// collect awaits each resource's identity concurrently and builds the
// display rows.
func collect(ctx context.Context, resources []*fabrica.ResourceState) []renderer.Resource {
	parents := map[string]string{
		"app-subnet": "app-network",
		"app-server": "app-network",
	}

	rows := make([]renderer.Resource, len(resources))
	var wg conc.WaitGroup
	for i, res := range resources {
		wg.Go(func() {
			row := renderer.Resource{
				Name:   res.Name(),
				Type:   res.Type(),
				Parent: parents[res.Name()],
			}
			if v, _, err := res.URN().Await(ctx); err == nil {
				if urn, ok := v.(model.URN); ok {
					row.URN = urn.String()
				}
			}
			if res.Custom() {
				if v, known, err := res.ID().Await(ctx); err == nil && known {
					if id, ok := v.(model.ID); ok {
						row.ID = id.String()
					}
				}
			}
			rows[i] = row
		})
	}
	wg.Wait()

	return rows
}
