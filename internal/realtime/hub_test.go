package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	id string

	mu       sync.Mutex
	received [][]byte
}

func (f *fakeClient) UserID() string { return f.id }

func (f *fakeClient) Send(message []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, message)
	return true
}

func (f *fakeClient) Close() {}

func (f *fakeClient) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.received)
}

func newHub() *Hub {
	return &Hub{rooms: make(map[string]map[Client]struct{})}
}

func TestBroadcast_ReachesWholeRoomIncludingSender(t *testing.T) {
	h := newHub()
	a := &fakeClient{id: "u-a"}
	b := &fakeClient{id: "u-b"}
	other := &fakeClient{id: "u-c"}

	h.Join("g-1", a)
	h.Join("g-1", b)
	h.Join("g-2", other)

	h.Broadcast("g-1", []byte("hello"))

	require.Equal(t, 1, a.count())
	require.Equal(t, 1, b.count())
	require.Equal(t, 0, other.count())
}

func TestBroadcastExcept_SkipsSender(t *testing.T) {
	h := newHub()
	a := &fakeClient{id: "u-a"}
	b := &fakeClient{id: "u-b"}

	h.Join("g-1", a)
	h.Join("g-1", b)

	h.BroadcastExcept("g-1", a, []byte("typing"))

	require.Equal(t, 0, a.count())
	require.Equal(t, 1, b.count())
}

func TestLeave_CleansUpEmptyRooms(t *testing.T) {
	h := newHub()
	a := &fakeClient{id: "u-a"}

	h.Join("g-1", a)
	require.Equal(t, 1, h.RoomSize("g-1"))

	h.Leave("g-1", a)
	require.Equal(t, 0, h.RoomSize("g-1"))

	// Broadcasting to an empty room is a no-op
	h.Broadcast("g-1", []byte("nobody home"))
	require.Equal(t, 0, a.count())
}

func TestLeaveAll_ReturnsRoomsLeft(t *testing.T) {
	h := newHub()
	a := &fakeClient{id: "u-a"}
	b := &fakeClient{id: "u-b"}

	h.Join("g-1", a)
	h.Join("g-2", a)
	h.Join("g-2", b)

	left := h.LeaveAll(a)
	require.ElementsMatch(t, []string{"g-1", "g-2"}, left)
	require.Equal(t, 0, h.RoomSize("g-1"))
	require.Equal(t, 1, h.RoomSize("g-2"))

	require.Empty(t, h.LeaveAll(a))
}

func TestJoin_IsIdempotentPerClient(t *testing.T) {
	h := newHub()
	a := &fakeClient{id: "u-a"}

	h.Join("g-1", a)
	h.Join("g-1", a)
	require.Equal(t, 1, h.RoomSize("g-1"))

	h.Broadcast("g-1", []byte("once"))
	require.Equal(t, 1, a.count())
}
