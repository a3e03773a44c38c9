package clients

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/spacesedan/swotflow/config"
)

var (
	valkeyInstance *ValkeyClient
	valkeyErr      error
	valkeyOnce     sync.Once
)

// ErrValkeyMiss is returned by Get when the key does not exist.
var ErrValkeyMiss = errors.New("valkey: key not found")

type ValkeyClient struct {
	Client valkey.Client
	opts   valkey.ClientOption
	mu     sync.Mutex
}

func valkeyOptions(cfg config.ValkeyConfig) valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

// InitValkey connects once per process and pings the server.
func InitValkey(cfg config.ValkeyConfig) (*ValkeyClient, error) {
	valkeyOnce.Do(func() {
		opts := valkeyOptions(cfg)
		client, err := connectValkey(opts)
		if err != nil {
			valkeyErr = err
			return
		}
		valkeyInstance = &ValkeyClient{Client: client, opts: opts}
	})
	return valkeyInstance, valkeyErr
}

func connectValkey(opts valkey.ClientOption) (valkey.Client, error) {
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey")
	return client, nil
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed", slog.String("error", err.Error()))
		return
	}
	vc.Client.Close()
	vc.Client = client
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.client().Close()
	}
}

// Set stores value under key, expiring after ttl when ttl is positive.
func (vc *ValkeyClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		set := c.B().Set().Key(key).Value(valkey.BinaryString(value))
		if ttl > 0 {
			return set.ExSeconds(int64(ttl.Seconds())).Build()
		}
		return set.Build()
	}, 3)
	return res.Error()
}

// Get returns ErrValkeyMiss for a missing key.
func (vc *ValkeyClient) Get(ctx context.Context, key string) ([]byte, error) {
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(key).Build()
	}, 3)
	data, err := res.AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, ErrValkeyMiss
	}
	return data, err
}

// DoWithRetry rebuilds the command for every attempt; a completed command
// is recycled once Do returns.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		c := vc.client()
		result = c.Do(ctx, build(c))
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
