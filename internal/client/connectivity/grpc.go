package connectivity

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var ErrNotServing = errors.New("service not serving")

// GRPCHealthProber probes a standard grpc.health.v1 endpoint placed in front
// of the platform.
type GRPCHealthProber struct {
	conn    *grpc.ClientConn
	health  healthpb.HealthClient
	service string
}

// NewGRPCHealthProber connects lazily to addr. An empty service checks the
// server as a whole. Without options the connection is plaintext.
func NewGRPCHealthProber(addr, service string, opts ...grpc.DialOption) (*GRPCHealthProber, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("health client %s: %w", addr, err)
	}

	return &GRPCHealthProber{
		conn:    conn,
		health:  healthpb.NewHealthClient(conn),
		service: service,
	}, nil
}

func (p *GRPCHealthProber) Probe(ctx context.Context) error {
	resp, err := p.health.Check(ctx, &healthpb.HealthCheckRequest{Service: p.service})
	if err != nil {
		return err
	}
	if s := resp.GetStatus(); s != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrNotServing, s)
	}
	return nil
}

func (p *GRPCHealthProber) Close() error {
	return p.conn.Close()
}
