package service

import (
	"sync"

	"ecogrow/internal/domain"
	"ecogrow/internal/repository/memstore"
)

// replaySource returns the queued values in order, then zeros.
type replaySource struct {
	mu     sync.Mutex
	values []int
}

func (r *replaySource) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

type sentNotification struct {
	UserID string
	domain.Notification
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *recordingNotifier) Notify(userID string, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{UserID: userID, Notification: n})
}

func (r *recordingNotifier) all() []sentNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentNotification(nil), r.sent...)
}

const (
	aliceID = "00000000-0000-0000-0000-00000000000a"
	bobID   = "00000000-0000-0000-0000-00000000000b"
	adminID = "00000000-0000-0000-0000-0000000000ad"
)

func sessionFor(userID string) *Session {
	return &Session{UserID: userID, TokenID: "tok-" + userID}
}

func seedProfile(st *memstore.Store, id, name string, coins int64) {
	st.PutProfile(domain.Profile{ID: id, FullName: name, EcoCoins: coins})
}

func validDelivery() domain.DeliveryInfo {
	return domain.DeliveryInfo{
		FullName: "Alice Green",
		Phone:    "+10000000000",
		WhatsApp: "+10000000000",
		Address:  "1 Forest Road",
		City:     "Leafton",
	}
}
