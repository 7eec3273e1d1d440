package crowdfund_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/raise3/raise3/crowdfund"
)

func TestNewQueryRejectsWrites(t *testing.T) {
	a := crowdfund.GetRaise3ABI()

	_, err := crowdfund.NewQuery[bool](newChain(), "0xc0ffee", a, "fundCampaign")
	assert.ErrorIs(t, err, crowdfund.ErrNotConstant)

	_, err = crowdfund.NewQuery[bool](newChain(), "0xc0ffee", a, "doesNotExist")
	assert.ErrorIs(t, err, crowdfund.ErrUnknownMethod)

	q, err := crowdfund.NewQuery[*big.Int](newChain(), "0xc0ffee", a, "campaignCount")
	require.NoError(t, err)
	assert.Equal(t, "campaignCount", q.Method())
}

func TestQueryFetchCachesEqualArgs(t *testing.T) {
	chain := newChain()
	q := crowdfund.NewContract("0xc0ffee", chain).MilestoneCountQuery()
	ctx := context.Background()

	st := q.Fetch(ctx, big.NewInt(0))
	require.NoError(t, st.Err)
	assert.False(t, st.Loading)
	assert.Equal(t, int64(2), st.Data.Int64())

	// equal by value, different pointer
	st = q.Fetch(ctx, big.NewInt(0))
	require.NoError(t, st.Err)
	assert.Equal(t, 1, chain.Calls("getMilestoneCount"))

	st = q.Fetch(ctx, big.NewInt(1))
	require.NoError(t, st.Err)
	assert.Equal(t, int64(0), st.Data.Int64())
	assert.Equal(t, 2, chain.Calls("getMilestoneCount"))

	st = q.Refresh(ctx, big.NewInt(1))
	require.NoError(t, st.Err)
	assert.Equal(t, 3, chain.Calls("getMilestoneCount"))
}

func TestQueryErrorLeavesDataUnset(t *testing.T) {
	chain := newChain()
	chain.Fail("campaignCount", errors.New("rpc down"))
	q := crowdfund.NewContract("0xc0ffee", chain).CountQuery()

	st := q.Fetch(context.Background())
	assert.ErrorContains(t, st.Err, "campaignCount: rpc down")
	assert.Nil(t, st.Data)
	assert.Equal(t, st, q.State())
}

func TestQueryLoadingState(t *testing.T) {
	defer goleak.VerifyNone(t)

	chain := newChain()
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	chain.Hook = func(method string, args ...interface{}) {
		once.Do(func() {
			close(entered)
			<-release
		})
	}
	q := crowdfund.NewContract("0xc0ffee", chain).CountQuery()

	done := make(chan crowdfund.State[*big.Int])
	go func() {
		done <- q.Fetch(context.Background())
	}()
	<-entered
	assert.True(t, q.State().Loading)

	// a second Fetch with the same args waits for the running call
	waiter := make(chan crowdfund.State[*big.Int])
	go func() {
		waiter <- q.Fetch(context.Background())
	}()
	close(release)

	st := <-done
	require.NoError(t, st.Err)
	assert.Equal(t, int64(2), st.Data.Int64())
	st = <-waiter
	assert.Equal(t, int64(2), st.Data.Int64())
	assert.False(t, q.State().Loading)
	assert.Equal(t, 1, chain.Calls("campaignCount"))
}

func TestQuerySupersededResultIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	chain := newChain()
	entered := make(chan struct{})
	release := make(chan struct{})
	chain.Hook = func(method string, args ...interface{}) {
		if args[0].(*big.Int).Int64() == 0 {
			close(entered)
			<-release
		}
	}
	q := crowdfund.NewContract("0xc0ffee", chain).MilestoneCountQuery()

	slow := make(chan crowdfund.State[*big.Int])
	go func() {
		slow <- q.Fetch(context.Background(), big.NewInt(0))
	}()
	<-entered

	st := q.Fetch(context.Background(), big.NewInt(1))
	require.NoError(t, st.Err)
	assert.Equal(t, int64(0), st.Data.Int64())

	close(release)
	old := <-slow
	assert.Equal(t, int64(2), old.Data.Int64())

	// the late answer for campaign 0 must not replace campaign 1's
	assert.Equal(t, int64(0), q.State().Data.Int64())
}

func TestQueryFetchHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	chain := newChain()
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	chain.Hook = func(method string, args ...interface{}) {
		once.Do(func() {
			close(entered)
			<-release
		})
	}
	q := crowdfund.NewContract("0xc0ffee", chain).CountQuery()
	done := make(chan struct{})
	go func() {
		q.Fetch(context.Background())
		close(done)
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	st := q.Fetch(ctx)
	assert.ErrorIs(t, st.Err, context.DeadlineExceeded)

	close(release)
	<-done
}
