package bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// userQueues runs each user's updates in arrival order on a worker of their
// own. Different users are served concurrently. A worker exits once its
// queue is empty.
type userQueues struct {
	mu      sync.Mutex
	pending map[int64][]tgbotapi.Update
	wg      sync.WaitGroup
	handle  func(tgbotapi.Update)
}

func newUserQueues(handle func(tgbotapi.Update)) *userQueues {
	return &userQueues{
		pending: make(map[int64][]tgbotapi.Update),
		handle:  handle,
	}
}

func (q *userQueues) push(userID int64, update tgbotapi.Update) {
	q.mu.Lock()
	queue, running := q.pending[userID]
	q.pending[userID] = append(queue, update)
	if !running {
		q.wg.Add(1)
	}
	q.mu.Unlock()

	if !running {
		go q.drain(userID)
	}
}

func (q *userQueues) drain(userID int64) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		queue := q.pending[userID]
		if len(queue) == 0 {
			delete(q.pending, userID)
			q.mu.Unlock()
			return
		}
		next := queue[0]
		q.pending[userID] = queue[1:]
		q.mu.Unlock()

		q.handle(next)
	}
}

// wait blocks until every queued update has been handled.
func (q *userQueues) wait() {
	q.wg.Wait()
}
