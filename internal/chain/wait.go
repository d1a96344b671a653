package chain

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// WaitForBlockProduction follows new heads until a block above genesis
// shows up. If the subscription cannot be opened it falls back to
// polling the best header every second.
func (s *Substrate) WaitForBlockProduction(ctx context.Context, timeout time.Duration) (uint32, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if n, err := s.BlockNumber(ctx); err == nil && n > 0 {
		return n, nil
	}

	s.log.Info("Waiting for block production", zap.Duration("timeout", timeout))

	sub, err := s.api.RPC.Chain.SubscribeNewHeads()
	if err != nil {
		s.log.Debug("Head subscription unavailable, polling", zap.Error(err))
		return pollBlocks(ctx, s.BlockNumber, pollInterval)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return 0, waitErr(ctx)
		case err := <-sub.Err():
			s.log.Debug("Head subscription closed, polling", zap.Error(err))
			return pollBlocks(ctx, s.BlockNumber, pollInterval)
		case head := <-sub.Chan():
			if n := uint32(head.Number); n > 0 {
				s.log.Info("Chain is producing blocks", zap.Uint32("block", n))
				return n, nil
			}
		}
	}
}

func pollBlocks(ctx context.Context, blockNumber func(context.Context) (uint32, error), every time.Duration) (uint32, error) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		n, err := blockNumber(ctx)
		if err == nil && n > 0 {
			return n, nil
		}
		select {
		case <-ctx.Done():
			return 0, waitErr(ctx)
		case <-ticker.C:
		}
	}
}

func waitErr(ctx context.Context) error {
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("waiting for block production: %w", ErrTimeout)
	}
	return ctx.Err()
}
