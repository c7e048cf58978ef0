package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/duynhne/user-profile-service/config"
)

// unknownService is the default service name when none is configured
const unknownService = "unknown-service"

// CreateResource builds the OpenTelemetry resource shared by tracing and profiling.
// OTEL_SERVICE_NAME and OTEL_RESOURCE_ATTRIBUTES override the configured values.
func CreateResource(ctx context.Context, svc config.ServiceConfig) (*resource.Resource, error) {
	serviceName := svc.Name
	if serviceName == "" {
		serviceName = unknownService
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(svc.Version),
			semconv.DeploymentEnvironment(svc.Env),
		),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithHost(),
	)
	if err != nil {
		// Partial detection failures still return a usable resource.
		return resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(svc.Version),
		), fmt.Errorf("resource detection partial failure (using fallback): %w", err)
	}

	return res, nil
}

// GetServiceName extracts service name from a resource
func GetServiceName(res *resource.Resource) string {
	if res == nil {
		return unknownService
	}
	if v, ok := res.Set().Value(semconv.ServiceNameKey); ok && v.AsString() != "" {
		return v.AsString()
	}
	return unknownService
}
