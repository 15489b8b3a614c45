package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/grove/pkg/adapters/fs"
	source "github.com/aretw0/grove/pkg/adapters/lifecycle"
	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/syncclient"
	"github.com/aretw0/grove/pkg/tree"
)

func TestSource_ForwardsSnapshots(t *testing.T) {
	repo, err := fs.NewRepository(fs.Config{Path: t.TempDir(), Debounce: 5 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, repo.Initialize(context.Background()))
	svc := core.NewService(repo)
	t.Cleanup(func() { _ = svc.Close() })

	client := syncclient.New(svc, syncclient.Config{})
	t.Cleanup(client.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := client.Subscribe(ctx, tree.Categories())
	require.NoError(t, err)

	src := source.NewSource(sub)
	require.NoError(t, src.Start(ctx))

	first := <-src.Events()
	snap, ok := first.(syncclient.Snapshot)
	require.True(t, ok)
	assert.Empty(t, snap.Documents)
	assert.Contains(t, first.String(), "seq=1")

	_, err = client.Create(ctx, tree.Categories(), core.Fields{tree.FieldName: "Work"})
	require.NoError(t, err)

	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case ev := <-src.Events():
			done = len(ev.(syncclient.Snapshot).Documents) == 1
		case <-timeout:
			t.Fatal("timeout waiting for snapshot event")
		}
	}

	client.Unsubscribe(sub)
	for range src.Events() {
	}
}
