package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/flowcanvas/types"
)

func TestStore_DispatchCommits(t *testing.T) {
	s := New(pairState().Doc)

	snap, notice, err := s.Dispatch(AddNode{Node: agentNode("critic", types.AgentAssistant)})
	require.NoError(t, err)
	require.Nil(t, notice)
	assert.Equal(t, uint64(1), snap.Version)
	assert.Len(t, s.State().Doc.Nodes, 3)
}

func TestStore_DispatchRefusedLeavesState(t *testing.T) {
	s := New(pairState().Doc)

	snap, notice, err := s.Dispatch(RemoveEdge{ID: "e1"})
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, uint64(0), snap.Version)
	assert.Len(t, s.State().Doc.Edges, 1)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := New(pairState().Doc)

	snap := s.State()
	snap.Doc.Nodes[0].Label = "mutated"

	assert.Equal(t, "user", s.State().Doc.Nodes[0].Label)
}

func TestStore_SubscribeReceivesEvents(t *testing.T) {
	s := New(pairState().Doc)
	events, cancel := s.Subscribe(4)
	defer cancel()

	_, _, err := s.Dispatch(AddNode{Node: agentNode("critic", types.AgentAssistant)})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, "add_node", ev.Action)
		assert.Equal(t, uint64(1), ev.State.Version)
		assert.Nil(t, ev.Notice)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestStore_SubscribeCancelClosesChannel(t *testing.T) {
	s := New(pairState().Doc)
	events, cancel := s.Subscribe(1)
	cancel()

	_, ok := <-events
	assert.False(t, ok)
}

func TestStore_PolicyNoticeReachesSubscribers(t *testing.T) {
	s := New(pairState().Doc)
	events, cancel := s.Subscribe(1)
	defer cancel()

	_, notice, err := s.Dispatch(RemoveEdge{ID: "e1"})
	require.NoError(t, err)
	require.NotNil(t, notice)

	select {
	case ev := <-events:
		require.NotNil(t, ev.Notice)
		assert.Equal(t, notice.Message, ev.Notice.Message)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestStore_History(t *testing.T) {
	s := New(pairState().Doc, WithHistory(2))

	for _, id := range []string{"n1", "n2", "n3"} {
		_, _, err := s.Dispatch(AddNode{Node: agentNode(id, types.AgentAssistant)})
		require.NoError(t, err)
	}

	hist := s.History()
	require.Len(t, hist, 2, "history is bounded")
	assert.Equal(t, uint64(1), hist[0].Version)
	assert.Equal(t, uint64(2), hist[1].Version)
	assert.Equal(t, uint64(3), s.Version())
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := New(pairState().Doc)

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			_, _, err := s.Dispatch(AddNode{Node: agentNode("", types.AgentAssistant)})
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, uint64(16), s.Version())
	assert.Len(t, s.State().Doc.Nodes, 18)
}

func TestStore_LimitsRefuseGrowth(t *testing.T) {
	s := New(pairState().Doc, WithLimits(2, 0))

	_, notice, err := s.Dispatch(AddNode{Node: agentNode("critic", types.AgentAssistant)})
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, types.SeverityError, notice.Severity)
	assert.Equal(t, types.ErrPolicyRejected, notice.Code)
	assert.Equal(t, uint64(0), s.Version())
	assert.Len(t, s.State().Doc.Nodes, 2)
}
