package billing

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/medtrack/patient-system/internal/infrastructure/wire"
)

type billingAccountCreator interface {
	createAccount(ctx context.Context, req []byte) (*rawFrame, error)
}

var billingServiceDesc = grpc.ServiceDesc{
	ServiceName: "billing.BillingService",
	HandlerType: (*billingAccountCreator)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateBillingAccount", Handler: createAccountHandler},
	},
}

func createAccountHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	var req rawFrame
	if err := dec(&req); err != nil {
		return nil, err
	}
	return srv.(billingAccountCreator).createAccount(ctx, req.payload)
}

type recordedRequest struct {
	patientID string
	name      string
	email     string
}

type billingServerStub struct {
	mu       sync.Mutex
	requests []recordedRequest
	err      error
	block    bool
}

func (s *billingServerStub) createAccount(ctx context.Context, req []byte) (*rawFrame, error) {
	patientID, name, email, err := wire.DecodeBillingRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.mu.Lock()
	s.requests = append(s.requests, recordedRequest{patientID: patientID, name: name, email: email})
	block := s.block
	failWith := s.err
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if failWith != nil {
		return nil, failWith
	}

	return &rawFrame{payload: wire.EncodeBillingResponse(wire.BillingAccountReply{
		AccountID: "acct-" + patientID,
		Status:    "ACTIVE",
	})}, nil
}

func startBillingServer(t *testing.T, stub *billingServerStub) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := grpc.NewServer(grpc.ForceServerCodec(rawCodec{}))
	srv.RegisterService(&billingServiceDesc, stub)

	go func() {
		_ = srv.Serve(listener)
	}()
	t.Cleanup(func() {
		srv.Stop()
		_ = listener.Close()
	})

	return listener.Addr().String()
}

func newTestClient(t *testing.T, addr string, timeout time.Duration) *Client {
	t.Helper()

	client, err := NewClient(addr, timeout, zerolog.Nop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCreateBillingAccount_SendsRequestFields(t *testing.T) {
	stub := &billingServerStub{}
	addr := startBillingServer(t, stub)
	client := newTestClient(t, addr, time.Second)

	err := client.CreateBillingAccount(context.Background(), "pat-1", "John Doe", "john@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if len(stub.requests) != 1 {
		t.Fatalf("requests: want 1, got %d", len(stub.requests))
	}
	got := stub.requests[0]
	if got.patientID != "pat-1" || got.name != "John Doe" || got.email != "john@example.com" {
		t.Errorf("request mismatch: %+v", got)
	}
}

func TestCreateBillingAccount_ServerError(t *testing.T) {
	stub := &billingServerStub{err: status.Error(codes.Internal, "billing db down")}
	addr := startBillingServer(t, stub)
	client := newTestClient(t, addr, time.Second)

	err := client.CreateBillingAccount(context.Background(), "pat-1", "John Doe", "john@example.com")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if status.Code(err) != codes.Internal {
		t.Errorf("status code: want Internal, got %v", status.Code(err))
	}
}

func TestCreateBillingAccount_TimesOut(t *testing.T) {
	stub := &billingServerStub{block: true}
	addr := startBillingServer(t, stub)
	client := newTestClient(t, addr, 100*time.Millisecond)

	start := time.Now()
	err := client.CreateBillingAccount(context.Background(), "pat-1", "John Doe", "john@example.com")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if status.Code(err) != codes.DeadlineExceeded {
		t.Errorf("status code: want DeadlineExceeded, got %v", status.Code(err))
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("call did not respect the timeout, took %v", elapsed)
	}
}

func TestCreateBillingAccount_CallerDeadlineWins(t *testing.T) {
	stub := &billingServerStub{block: true}
	addr := startBillingServer(t, stub)
	client := newTestClient(t, addr, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := client.CreateBillingAccount(ctx, "pat-1", "John Doe", "john@example.com")
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatal("test context should have expired")
	}
	if status.Code(err) != codes.DeadlineExceeded {
		t.Errorf("status code: want DeadlineExceeded, got %v", status.Code(err))
	}
}

func TestCreateBillingAccount_Unreachable(t *testing.T) {
	// Grab a port with no listener behind it.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()

	client := newTestClient(t, addr, 500*time.Millisecond)

	if err := client.CreateBillingAccount(context.Background(), "pat-1", "John Doe", "john@example.com"); err == nil {
		t.Fatal("expected error for unreachable billing service, got nil")
	}
}
