// Package billing is a thin synchronous gRPC client for the external billing
// service. The write pipeline calls it once per created patient.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/medtrack/patient-system/internal/infrastructure/wire"
)

const (
	defaultTimeout = 5 * time.Second

	createAccountMethod = "/billing.BillingService/CreateBillingAccount"
)

// rawFrame carries already-encoded protobuf bytes through the gRPC stack.
// The billing messages are built with protowire rather than generated code,
// so the codec passes payloads through untouched.
type rawFrame struct {
	payload []byte
}

type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	f, ok := v.(*rawFrame)
	if !ok {
		return nil, fmt.Errorf("billing codec: unexpected message type %T", v)
	}
	return f.payload, nil
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	f, ok := v.(*rawFrame)
	if !ok {
		return fmt.Errorf("billing codec: unexpected message type %T", v)
	}
	f.payload = append([]byte(nil), data...)
	return nil
}

func (rawCodec) Name() string { return "proto" }

// Client calls the billing service over gRPC.
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
	log     zerolog.Logger
}

func NewClient(addr string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("billing: connect: %w", err)
	}

	return &Client{conn: conn, timeout: timeout, log: log}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// CreateBillingAccount opens a billing account keyed by the patient id.
// Every RPC failure is reported as-is; the caller decides what that means
// for the patient write.
func (c *Client) CreateBillingAccount(ctx context.Context, patientID, name, email string) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := rawFrame{payload: wire.EncodeBillingRequest(patientID, name, email)}
	var resp rawFrame

	if err := c.conn.Invoke(ctx, createAccountMethod, &req, &resp, grpc.ForceCodec(rawCodec{})); err != nil {
		return fmt.Errorf("billing: create account: %w", err)
	}

	reply, err := wire.DecodeBillingResponse(resp.payload)
	if err != nil {
		return fmt.Errorf("billing: create account: %w", err)
	}

	c.log.Debug().
		Str("patient_id", patientID).
		Str("account_id", reply.AccountID).
		Str("status", reply.Status).
		Msg("billing account created")
	return nil
}
