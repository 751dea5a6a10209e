package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-blackout/internal/codec"
	"github.com/oshokin/alarm-blackout/internal/config"
	"github.com/oshokin/alarm-blackout/internal/domain/alert"
	"github.com/oshokin/alarm-blackout/internal/pipeline"
)

// Client calls the intake service.
type Client struct {
	// conn is the underlying gRPC connection.
	conn *grpc.ClientConn
	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// dialOptions are extra options used when dialing.
	dialOptions []grpc.DialOption
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithDialOptions appends gRPC dial options.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a client for the intake service at address.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout: config.DefaultTimeout,
		dialOptions: []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())},
	}

	for _, opt := range opts {
		opt(client)
	}

	conn, err := grpc.NewClient(address, client.dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial intake server: %w", err)
	}

	client.conn = conn

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Receive submits an alert. A non-nil inBlackout passes the caller's
// blackout verdict along.
func (c *Client) Receive(ctx context.Context, a *alert.Alert, inBlackout *bool) (*pipeline.Outcome, error) {
	encoded, err := codec.AlertToStruct(a)
	if err != nil {
		return nil, err
	}

	req := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldAlert: structpb.NewStructValue(encoded),
		},
	}

	if inBlackout != nil {
		req.Fields[fieldInBlackout] = structpb.NewBoolValue(*inBlackout)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, fullMethod(methodReceive), req, resp); err != nil {
		return nil, fmt.Errorf("receive alert: %w", err)
	}

	if resp.GetFields()[fieldStatus].GetStringValue() == statusSuppressed {
		return &pipeline.Outcome{
			Suppressed: true,
			Reason:     resp.GetFields()[fieldMessage].GetStringValue(),
		}, nil
	}

	stored, err := codec.AlertFromStruct(resp.GetFields()[fieldAlert].GetStructValue())
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &pipeline.Outcome{Alert: stored}, nil
}

// BlackoutChange reports a blackout window lifecycle event.
func (c *Client) BlackoutChange(ctx context.Context, event *codec.Event) error {
	req, err := codec.EventToStruct(event)
	if err != nil {
		return err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if err := c.conn.Invoke(callCtx, fullMethod(methodBlackoutChange), req, new(emptypb.Empty)); err != nil {
		return fmt.Errorf("blackout change: %w", err)
	}

	return nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
