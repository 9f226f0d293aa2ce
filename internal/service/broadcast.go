package service

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

type BroadcastResult struct {
	Sent   int
	Failed int
}

// Broadcast delivers text to every known user. At most
// BroadcastConcurrency sends run at once; a failed send is counted and never
// stops the others.
func (s *Service) Broadcast(ctx context.Context, text string) (*BroadcastResult, error) {
	ids, err := s.repo.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	limit := s.config.BroadcastConcurrency
	if limit < 1 {
		limit = 1
	}

	var sent, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(limit)

	for _, id := range ids {
		g.Go(func() error {
			if err := s.sender.SendText(ctx, id, text); err != nil {
				s.logger.Debugf("Broadcast to %d failed: %v", id, err)
				failed.Add(1)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	result := &BroadcastResult{Sent: int(sent.Load()), Failed: int(failed.Load())}
	s.logger.Infof("Broadcast done: sent=%d failed=%d", result.Sent, result.Failed)
	return result, nil
}
