// Package chain submits calls to Substrate nodes and reads their state.
package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"

	"github.com/parallel-finance/paractl/internal/calls"
)

var (
	// ErrExtrinsicFailed is returned when an extrinsic was included but
	// its dispatch failed. The error chain also holds a *DispatchError.
	ErrExtrinsicFailed = errors.New("extrinsic failed")
	// ErrDropped is returned when the pool dropped, usurped or rejected
	// the extrinsic.
	ErrDropped = errors.New("extrinsic dropped")
	// ErrTimeout is returned when a wait exceeds its deadline.
	ErrTimeout = errors.New("timed out")
)

// DispatchError is the decoded reason of a failed dispatch.
type DispatchError struct {
	Pallet string
	Name   string
	// Raw is the undecoded event payload, kept when the module error
	// cannot be resolved against metadata.
	Raw string
}

func (e *DispatchError) Error() string {
	if e.Pallet != "" && e.Name != "" {
		return fmt.Sprintf("%s: %s.%s", ErrExtrinsicFailed, e.Pallet, e.Name)
	}
	return fmt.Sprintf("%s: %s", ErrExtrinsicFailed, e.Raw)
}

func (e *DispatchError) Unwrap() error { return ErrExtrinsicFailed }

// Receipt describes an included extrinsic.
type Receipt struct {
	BlockHash      string   `json:"blockHash" yaml:"blockHash"`
	ExtrinsicIndex int      `json:"extrinsicIndex" yaml:"extrinsicIndex"`
	ExtrinsicHash  string   `json:"extrinsicHash" yaml:"extrinsicHash"`
	Events         []string `json:"events" yaml:"events"`
}

// ReadProof is the result of state_getReadProof.
type ReadProof struct {
	At    string   `json:"at" yaml:"at"`
	Proof [][]byte `json:"proof" yaml:"proof"`
}

// Client is the view of a chain node used by the commands.
//
// Block hashes are 0x prefixed hex strings; an empty hash means the
// best block.
type Client interface {
	ChainName(ctx context.Context) (string, error)
	BlockNumber(ctx context.Context) (uint32, error)
	BlockHash(ctx context.Context, number uint32) (string, error)
	LatestBlockHash(ctx context.Context) (string, error)

	// WaitForBlockProduction blocks until the chain has produced a non
	// genesis block, the timeout elapses or ctx is cancelled.
	WaitForBlockProduction(ctx context.Context, timeout time.Duration) (uint32, error)

	Encode(call calls.Call) ([]byte, error)
	EncodeHex(call calls.Call) (string, error)

	// Submit signs call with signer and waits for it to be included.
	Submit(ctx context.Context, signer signature.KeyringPair, call calls.Call) (*Receipt, error)
	// SubmitBatch wraps batch in Utility.batch_all and submits it.
	SubmitBatch(ctx context.Context, signer signature.KeyringPair, batch []calls.Call) (*Receipt, error)

	// StorageRaw returns the raw value under key, or nil when absent.
	StorageRaw(ctx context.Context, key []byte, at string) ([]byte, error)
	ReadProof(ctx context.Context, keys [][]byte, at string) (*ReadProof, error)
	// Constant decodes a pallet constant into target.
	Constant(pallet, name string, target interface{}) error

	Close()
}
