package grove_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/grove"
	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/tree"
)

// Example_basic creates a category and a topic, then reads the topic list
// from a live subscription.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "grove-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()

	svc, err := grove.New(ctx, tmpDir, grove.WithAdapter(grove.AdapterSQLite))
	if err != nil {
		log.Fatal(err)
	}
	defer svc.Close()

	client := grove.NewClient(svc, grove.ClientConfig{Cascade: true})
	defer client.Close()

	catID, err := client.Create(ctx, tree.Categories(), core.Fields{"name": "Work"})
	if err != nil {
		log.Fatal(err)
	}
	if _, err := client.Create(ctx, tree.Topics(catID), core.Fields{"name": "Invoices"}); err != nil {
		log.Fatal(err)
	}

	sub, err := client.Subscribe(ctx, tree.Topics(catID))
	if err != nil {
		log.Fatal(err)
	}
	snap := <-sub.Snapshots()

	topics, _ := grove.DecodeAll[grove.Topic](snap.Documents)
	for _, t := range topics {
		fmt.Println(t.Data.Name)
	}
	// Output:
	// Invoices
}
