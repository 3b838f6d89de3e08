package subject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupFanIn(t *testing.T) {
	var m1, m2, group Subject
	m1.InitInt(1)
	m2.InitString(16, true, "idle")
	group.InitGroup(&m1, &m2)

	require.Equal(t, KindGroup, group.Kind())
	require.Equal(t, 2, group.Size())

	calls := 0
	group.AddObserver(func(_ *Observer, g *Subject) {
		calls++
		assert.Equal(t, "idle", g.Member(1).Text())
	}, nil)
	calls = 0

	m1.SetInt(2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "idle", m2.Text())

	m1.SetInt(2)
	assert.Equal(t, 1, calls, "unchanged member must not notify the group")

	m2.CopyString("busy")
	assert.Equal(t, 2, calls)
}

func TestGroupMembers(t *testing.T) {
	var a, b, group Subject
	a.InitInt(0)
	b.InitFloat(0)
	group.InitGroup(&a, nil, &b)

	assert.Same(t, &a, group.Member(0))
	assert.Nil(t, group.Member(1))
	assert.Same(t, &b, group.Member(2))
	assert.Nil(t, group.Member(3))
	assert.Nil(t, group.Member(-1))

	members := group.Members()
	members[0] = nil
	assert.Same(t, &a, group.Member(0), "Members must return a copy")
}

func TestGroupNotifiesDuringInit(t *testing.T) {
	rec := newTestRecorder(t)

	var a, b, group Subject
	a.InitInt(0)
	b.InitInt(0)
	group.InitGroup(&a, &b)

	// One catch-up per member, each notifying the empty group.
	assert.Len(t, rec.stats, 2)
	assert.Equal(t, 1, a.ObserverCount())
	assert.Equal(t, 1, b.ObserverCount())
}

func TestGroupDeinitDetachesMembers(t *testing.T) {
	var a, b, group Subject
	a.InitInt(0)
	b.InitInt(0)
	group.InitGroup(&a, &b)

	calls := 0
	group.AddObserver(func(*Observer, *Subject) { calls++ }, nil)
	calls = 0

	group.Deinit()
	assert.Equal(t, 0, a.ObserverCount())
	assert.Equal(t, 0, b.ObserverCount())

	a.SetInt(1)
	assert.Equal(t, 0, calls)
}

func TestGroupPointerMemberAlwaysFires(t *testing.T) {
	var p, group Subject
	p.InitPointer(nil)
	group.InitGroup(&p)

	calls := 0
	group.AddObserver(func(*Observer, *Subject) { calls++ }, nil)
	calls = 0

	p.SetPointer(nil)
	p.SetPointer(nil)
	assert.Equal(t, 2, calls)
}
