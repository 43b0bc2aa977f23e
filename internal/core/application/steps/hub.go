package steps

import (
	"sync"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
)

type scope struct {
	email string
	plan  domain.MembershipPlan
}

// snapshotHub multicasts the latest step snapshot of a scope to its
// watchers. Every watcher channel buffers a single snapshot: a stale one is
// dropped in favour of the newest.
type snapshotHub struct {
	lock   sync.Mutex
	subs   map[scope]map[int]chan []domain.MembershipStep
	nextID int
}

func newSnapshotHub() *snapshotHub {
	return &snapshotHub{
		subs: make(map[scope]map[int]chan []domain.MembershipStep),
	}
}

// subscribe registers a new watcher for the scope and delivers it the
// snapshot returned by read. It all happens under the hub lock so that the
// initial snapshot can't be overtaken by an older publish.
func (h *snapshotHub) subscribe(
	key scope, read func() ([]domain.MembershipStep, error),
) (int, <-chan []domain.MembershipStep, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	snapshot, err := read()
	if err != nil {
		return 0, nil, err
	}

	ch := make(chan []domain.MembershipStep, 1)
	ch <- snapshot

	id := h.nextID
	h.nextID++
	if _, ok := h.subs[key]; !ok {
		h.subs[key] = make(map[int]chan []domain.MembershipStep)
	}
	h.subs[key][id] = ch
	return id, ch, nil
}

func (h *snapshotHub) unsubscribe(key scope, id int) {
	h.lock.Lock()
	defer h.lock.Unlock()

	ch, ok := h.subs[key][id]
	if !ok {
		return
	}
	delete(h.subs[key], id)
	if len(h.subs[key]) <= 0 {
		delete(h.subs, key)
	}
	close(ch)
}

// publish reads the current snapshot of the scope and sends it to every
// watcher. Reads and sends of concurrent publishes are serialized, watchers
// never observe an older snapshot after a newer one.
func (h *snapshotHub) publish(
	key scope, read func() ([]domain.MembershipStep, error),
) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	subs := h.subs[key]
	if len(subs) <= 0 {
		return nil
	}

	snapshot, err := read()
	if err != nil {
		return err
	}

	for _, ch := range subs {
		select {
		case <-ch:
		default:
		}
		ch <- copySteps(snapshot)
	}
	return nil
}

func copySteps(steps []domain.MembershipStep) []domain.MembershipStep {
	cp := make([]domain.MembershipStep, len(steps))
	copy(cp, steps)
	return cp
}
